// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package event

import (
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
)

// Rotation is the "rot" event that replaces signing keys with the keys
// pre-committed at the previous establishment event. Threshold fields are
// lowercase hex, unlike inception's decimal encoding (§9).
type Rotation struct {
	V  string   `json:"v"`
	T  string   `json:"t"`
	D  string   `json:"d"`
	I  string   `json:"i"`
	S  string   `json:"s"`
	P  string   `json:"p"`
	KT string   `json:"kt"`
	K  []string `json:"k"`
	NT string   `json:"nt"`
	N  []string `json:"n"`
	BT string   `json:"bt"`
	BR []string `json:"br"`
	BA []string `json:"ba"`
	A  []Anchor `json:"a"`
}

// RotationParams carries the semantic inputs to NewRotation.
type RotationParams struct {
	Prefix           string
	Sequence         uint64
	PriorDigest      string
	Keys             []string
	Threshold        int
	NextKeysDigest   []string
	NextThreshold    int
	WitnessThreshold int
	WitnessCuts      []string
	WitnessAdds      []string
	Anchors          []Anchor
}

// NewRotation builds, SAID-derives, and validates a rotation event.
func NewRotation(p RotationParams) (*Rotation, error) {
	if p.Sequence == 0 {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeRotation), Reason: "sequence must be greater than 0"}
	}
	if p.Prefix == "" {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeRotation), Reason: "i must not be empty"}
	}
	if p.PriorDigest == "" {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeRotation), Reason: "p must not be empty"}
	}
	if len(p.Keys) == 0 {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeRotation), Reason: "k must not be empty"}
	}

	cuts := p.WitnessCuts
	if cuts == nil {
		cuts = []string{}
	}
	adds := p.WitnessAdds
	if adds == nil {
		adds = []string{}
	}
	anchors := p.Anchors
	if anchors == nil {
		anchors = []Anchor{}
	}
	nextDigest := p.NextKeysDigest
	if nextDigest == nil {
		nextDigest = []string{}
	}

	rot := &Rotation{
		V:  versify(0),
		T:  string(TypeRotation),
		D:  saidPlaceholder,
		I:  p.Prefix,
		S:  formatSequence(TypeRotation, p.Sequence),
		P:  p.PriorDigest,
		KT: formatThreshold(TypeRotation, p.Threshold),
		K:  p.Keys,
		NT: formatThreshold(TypeRotation, p.NextThreshold),
		N:  nextDigest,
		BT: formatThreshold(TypeRotation, p.WitnessThreshold),
		BR: cuts,
		BA: adds,
		A:  anchors,
	}

	_, _, err := saidify(
		func() ([]byte, error) { return rot.Marshal() },
		func(v string) { rot.V = v },
		func(d string) { rot.D = d },
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := rot.Validate(); err != nil {
		return nil, err
	}
	return rot, nil
}

func (e *Rotation) Type() Type            { return Type(e.T) }
func (e *Rotation) SAID() string          { return e.D }
func (e *Rotation) Prefix() string        { return e.I }
func (e *Rotation) SequenceString() string { return e.S }
func (e *Rotation) Version() string       { return e.V }
func (e *Rotation) Anchors() []Anchor     { return e.A }

func (e *Rotation) Sequence() (uint64, error) {
	return parseSequence(TypeRotation, e.S)
}

func (e *Rotation) PriorDigest() (string, bool) { return e.P, e.P != "" }

func (e *Rotation) Marshal() ([]byte, error) { return marshalCanonical(e) }

// Validate checks the structural invariants of §4.4 for a rot event.
func (e *Rotation) Validate() error {
	if e.T != string(TypeRotation) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("expected t=%s", TypeRotation)}
	}
	if _, err := parseVersionSize(e.V); err != nil {
		return err
	}
	if _, err := e.Sequence(); err != nil {
		return err
	}
	if e.P == "" {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: "p must not be empty"}
	}
	if e.D == "" {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: "d must not be empty"}
	}
	if err := verifySAID(e.D, func() ([]byte, error) {
		clone := *e
		clone.D = saidPlaceholder
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
	kt, err := parseThreshold(TypeRotation, e.KT)
	if err != nil {
		return err
	}
	if kt > len(e.K) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("kt=%d exceeds %d keys", kt, len(e.K))}
	}
	nt, err := parseThreshold(TypeRotation, e.NT)
	if err != nil {
		return err
	}
	if nt > len(e.N) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("nt=%d exceeds %d next-key digests", nt, len(e.N))}
	}
	if _, err := parseThreshold(TypeRotation, e.BT); err != nil {
		return err
	}
	return nil
}
