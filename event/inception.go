// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package event

import (
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
)

// Inception is the "icp" event that establishes an identifier. Field
// order matches §4.4's construction table exactly, since encoding/json
// marshals struct fields in declaration order and that order is the
// canonical serialization.
type Inception struct {
	V  string   `json:"v"`
	T  string   `json:"t"`
	D  string   `json:"d"`
	I  string   `json:"i"`
	S  string   `json:"s"`
	KT string   `json:"kt"`
	K  []string `json:"k"`
	NT string   `json:"nt"`
	N  []string `json:"n"`
	BT string   `json:"bt"`
	B  []string `json:"b"`
	C  []string `json:"c"`
	A  []Anchor `json:"a"`
}

// InceptionParams carries the semantic inputs to NewInception; thresholds
// are plain ints and encoded per §4.4's decimal convention for icp.
type InceptionParams struct {
	Keys             []string
	Threshold        int
	NextKeysDigest   []string
	NextThreshold    int
	WitnessThreshold int
	Witnesses        []string
	Config           []string
	Anchors          []Anchor
}

// NewInception builds, SAID-derives, and validates an inception event.
// The resulting event's I and D fields are both the SAID of its own
// canonical serialization (§3 "Identifier Prefix").
func NewInception(p InceptionParams) (*Inception, error) {
	if len(p.Keys) == 0 {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeInception), Reason: "k must not be empty"}
	}
	if err := noDuplicateWitnesses(p.Witnesses); err != nil {
		return nil, err
	}

	witnesses := p.Witnesses
	if witnesses == nil {
		witnesses = []string{}
	}
	config := p.Config
	if config == nil {
		config = []string{}
	}
	anchors := p.Anchors
	if anchors == nil {
		anchors = []Anchor{}
	}
	nextDigest := p.NextKeysDigest
	if nextDigest == nil {
		nextDigest = []string{}
	}

	icp := &Inception{
		V:  versify(0),
		T:  string(TypeInception),
		D:  saidPlaceholder,
		I:  saidPlaceholder,
		S:  "0",
		KT: formatThreshold(TypeInception, p.Threshold),
		K:  p.Keys,
		NT: formatThreshold(TypeInception, p.NextThreshold),
		N:  nextDigest,
		BT: formatThreshold(TypeInception, p.WitnessThreshold),
		B:  witnesses,
		C:  config,
		A:  anchors,
	}

	_, _, err := saidify(
		func() ([]byte, error) { return icp.Marshal() },
		func(v string) { icp.V = v },
		func(d string) { icp.D = d },
		true,
		func(i string) { icp.I = i },
	)
	if err != nil {
		return nil, err
	}

	if err := icp.Validate(); err != nil {
		return nil, err
	}
	return icp, nil
}

func noDuplicateWitnesses(wits []string) error {
	seen := make(map[string]struct{}, len(wits))
	for _, w := range wits {
		if _, ok := seen[w]; ok {
			return &kerierr.ErrInvalidEvent{EventType: string(TypeInception), Reason: fmt.Sprintf("duplicate witness %q", w)}
		}
		seen[w] = struct{}{}
	}
	return nil
}

func (e *Inception) Type() Type            { return Type(e.T) }
func (e *Inception) SAID() string          { return e.D }
func (e *Inception) Prefix() string        { return e.I }
func (e *Inception) SequenceString() string { return e.S }
func (e *Inception) Version() string       { return e.V }
func (e *Inception) Anchors() []Anchor     { return e.A }

func (e *Inception) Sequence() (uint64, error) {
	return parseSequence(TypeInception, e.S)
}

// PriorDigest always returns ("", false): inception has no prior event.
func (e *Inception) PriorDigest() (string, bool) { return "", false }

func (e *Inception) Marshal() ([]byte, error) { return marshalCanonical(e) }

// Validate checks the structural invariants of §4.4 for an icp event.
func (e *Inception) Validate() error {
	if e.T != string(TypeInception) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("expected t=%s", TypeInception)}
	}
	if _, err := parseVersionSize(e.V); err != nil {
		return err
	}
	if _, err := e.Sequence(); err != nil {
		return err
	}
	if e.D == "" {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: "d must not be empty"}
	}
	if e.I != e.D {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: "i must equal d for inception"}
	}
	if err := verifySAID(e.D, func() ([]byte, error) {
		clone := *e
		clone.D = saidPlaceholder
		clone.I = saidPlaceholder
		return clone.Marshal()
	}); err != nil {
		return err
	}
	if err := validateAnchors(e.A); err != nil {
		return err
	}
	if len(e.K) == 0 {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: "k must not be empty"}
	}
	kt, err := parseThreshold(TypeInception, e.KT)
	if err != nil {
		return err
	}
	if kt > len(e.K) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("kt=%d exceeds %d keys", kt, len(e.K))}
	}
	nt, err := parseThreshold(TypeInception, e.NT)
	if err != nil {
		return err
	}
	if nt > len(e.N) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("nt=%d exceeds %d next-key digests", nt, len(e.N))}
	}
	bt, err := parseThreshold(TypeInception, e.BT)
	if err != nil {
		return err
	}
	if bt > len(e.B) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("bt=%d exceeds %d witnesses", bt, len(e.B))}
	}
	if err := noDuplicateWitnesses(e.B); err != nil {
		return err
	}
	return nil
}
