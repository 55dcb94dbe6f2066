// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package event

import (
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
)

// Interaction is the "ixn" event that anchors external data without
// changing key material. It carries no key fields at all.
type Interaction struct {
	V string   `json:"v"`
	T string   `json:"t"`
	D string   `json:"d"`
	I string   `json:"i"`
	S string   `json:"s"`
	P string   `json:"p"`
	A []Anchor `json:"a"`
}

// InteractionParams carries the semantic inputs to NewInteraction.
type InteractionParams struct {
	Prefix      string
	Sequence    uint64
	PriorDigest string
	Anchors     []Anchor
}

// NewInteraction builds, SAID-derives, and validates an interaction event.
func NewInteraction(p InteractionParams) (*Interaction, error) {
	if p.Sequence == 0 {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeInteraction), Reason: "sequence must be greater than 0"}
	}
	if p.Prefix == "" {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeInteraction), Reason: "i must not be empty"}
	}
	if p.PriorDigest == "" {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(TypeInteraction), Reason: "p must not be empty"}
	}

	anchors := p.Anchors
	if anchors == nil {
		anchors = []Anchor{}
	}

	ixn := &Interaction{
		V: versify(0),
		T: string(TypeInteraction),
		D: saidPlaceholder,
		I: p.Prefix,
		S: formatSequence(TypeInteraction, p.Sequence),
		P: p.PriorDigest,
		A: anchors,
	}

	_, _, err := saidify(
		func() ([]byte, error) { return ixn.Marshal() },
		func(v string) { ixn.V = v },
		func(d string) { ixn.D = d },
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ixn.Validate(); err != nil {
		return nil, err
	}
	return ixn, nil
}

func (e *Interaction) Type() Type            { return Type(e.T) }
func (e *Interaction) SAID() string          { return e.D }
func (e *Interaction) Prefix() string        { return e.I }
func (e *Interaction) SequenceString() string { return e.S }
func (e *Interaction) Version() string       { return e.V }
func (e *Interaction) Anchors() []Anchor     { return e.A }

func (e *Interaction) Sequence() (uint64, error) {
	return parseSequence(TypeInteraction, e.S)
}

func (e *Interaction) PriorDigest() (string, bool) { return e.P, e.P != "" }

func (e *Interaction) Marshal() ([]byte, error) { return marshalCanonical(e) }

// Validate checks the structural invariants of §4.4 for an ixn event.
func (e *Interaction) Validate() error {
	if e.T != string(TypeInteraction) {
		return &kerierr.ErrInvalidEvent{EventType: e.T, Reason: fmt.Sprintf("expected t=%s", TypeInteraction)}
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
	return validateAnchors(e.A)
}
