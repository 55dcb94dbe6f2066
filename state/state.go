// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package state derives KeyState — the current signing configuration of
// an identifier — by folding inception, rotation, and interaction events
// in sequence. from_inception and apply_* are pure, total functions:
// given a state and an event they return a successor state or a typed
// error, never mutating their inputs.
package state

import (
	"time"

	"github.com/aumos-ai/keri-core/event"
	"github.com/aumos-ai/keri-core/kerierr"
)

// KeyState is the current signing configuration reconstructed by
// replaying a prefix's Key Event Log (§3 "KeyState").
type KeyState struct {
	Prefix            string
	Sequence          uint64
	Digest            string
	Keys              []string
	NextKeysDigest    []string
	Threshold         int
	NextThreshold     int
	Witnesses         []string
	WitnessThreshold  int
	Delegator         string
	LastEventType     event.Type
	EstablishmentOnly bool
	Timestamp         time.Time
}

const establishmentOnlyTrait = "EO"

// FromInception constructs the initial KeyState from an inception event.
func FromInception(icp *event.Inception) (*KeyState, error) {
	if err := icp.Validate(); err != nil {
		return nil, err
	}
	kt, err := parseDecimalOrHex(icp.KT, true)
	if err != nil {
		return nil, err
	}
	nt, err := parseDecimalOrHex(icp.NT, true)
	if err != nil {
		return nil, err
	}
	bt, err := parseDecimalOrHex(icp.BT, true)
	if err != nil {
		return nil, err
	}

	eo := false
	for _, trait := range icp.C {
		if trait == establishmentOnlyTrait {
			eo = true
			break
		}
	}

	return &KeyState{
		Prefix:            icp.I,
		Sequence:          0,
		Digest:            icp.D,
		Keys:              append([]string(nil), icp.K...),
		NextKeysDigest:    append([]string(nil), icp.N...),
		Threshold:         kt,
		NextThreshold:     nt,
		Witnesses:         append([]string(nil), icp.B...),
		WitnessThreshold:  bt,
		LastEventType:     event.TypeInception,
		EstablishmentOnly: eo,
		Timestamp:         time.Now().UTC(),
	}, nil
}

// ApplyRotation folds a rotation event onto a KeyState, validating
// sequence contiguity, the prior-digest link, and the pre-rotation
// commitment, then recomputing the witness set (§4.5).
func ApplyRotation(s *KeyState, rot *event.Rotation) (*KeyState, error) {
	if err := rot.Validate(); err != nil {
		return nil, err
	}

	seq, err := rot.Sequence()
	if err != nil {
		return nil, err
	}
	if seq != s.Sequence+1 {
		return nil, &kerierr.ErrChainViolation{Prefix: s.Prefix, Sequence: seq, Reason: "sequence is not state.sequence+1"}
	}

	priorDigest, _ := rot.PriorDigest()
	if priorDigest != s.Digest {
		return nil, &kerierr.ErrChainViolation{Prefix: s.Prefix, Sequence: seq, Reason: "p does not equal prior state digest"}
	}

	nt, err := parseDecimalOrHex(rot.NT, false)
	if err != nil {
		return nil, err
	}
	commitment, err := event.ComputeCommitment(rot.K, nt)
	if err != nil {
		return nil, err
	}
	if !stringSlicesEqual(commitment, s.NextKeysDigest) {
		return nil, &kerierr.ErrChainViolation{Prefix: s.Prefix, Sequence: seq, Reason: "recomputed commitment does not match prior next-keys digest"}
	}

	kt, err := parseDecimalOrHex(rot.KT, false)
	if err != nil {
		return nil, err
	}
	bt, err := parseDecimalOrHex(rot.BT, false)
	if err != nil {
		return nil, err
	}

	witnesses := rotateWitnesses(s.Witnesses, rot.BR, rot.BA)

	return &KeyState{
		Prefix:            s.Prefix,
		Sequence:          seq,
		Digest:            rot.D,
		Keys:              append([]string(nil), rot.K...),
		NextKeysDigest:    append([]string(nil), rot.N...),
		Threshold:         kt,
		NextThreshold:     nt,
		Witnesses:         witnesses,
		WitnessThreshold:  bt,
		LastEventType:     event.TypeRotation,
		EstablishmentOnly: s.EstablishmentOnly,
		Timestamp:         time.Now().UTC(),
	}, nil
}

// ApplyInteraction folds an interaction event onto a KeyState, validating
// only the sequence and prior-digest links: keys, thresholds, and
// witnesses are left untouched (§4.5, P9).
func ApplyInteraction(s *KeyState, ixn *event.Interaction) (*KeyState, error) {
	if s.EstablishmentOnly {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(event.TypeInteraction), Reason: "identifier is establishment-only; interaction events are refused"}
	}
	if err := ixn.Validate(); err != nil {
		return nil, err
	}

	seq, err := ixn.Sequence()
	if err != nil {
		return nil, err
	}
	if seq != s.Sequence+1 {
		return nil, &kerierr.ErrChainViolation{Prefix: s.Prefix, Sequence: seq, Reason: "sequence is not state.sequence+1"}
	}

	priorDigest, _ := ixn.PriorDigest()
	if priorDigest != s.Digest {
		return nil, &kerierr.ErrChainViolation{Prefix: s.Prefix, Sequence: seq, Reason: "p does not equal prior state digest"}
	}

	next := *s
	next.Sequence = seq
	next.Digest = ixn.D
	next.LastEventType = event.TypeInteraction
	next.Timestamp = time.Now().UTC()
	next.Keys = append([]string(nil), s.Keys...)
	next.NextKeysDigest = append([]string(nil), s.NextKeysDigest...)
	next.Witnesses = append([]string(nil), s.Witnesses...)
	return &next, nil
}

// rotateWitnesses computes (previous \ cuts) ++ adds, deduplicated, in
// insertion order (§3 "Witness set evolution", P10).
func rotateWitnesses(previous, cuts, adds []string) []string {
	cutSet := make(map[string]struct{}, len(cuts))
	for _, w := range cuts {
		cutSet[w] = struct{}{}
	}

	seen := make(map[string]struct{}, len(previous)+len(adds))
	out := make([]string, 0, len(previous)+len(adds))
	for _, w := range previous {
		if _, cut := cutSet[w]; cut {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range adds {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// parseDecimalOrHex parses a threshold string using inception's decimal
// convention when icp is true and rotation/interaction's hex convention
// otherwise — centralizing the quirk noted in §9.
func parseDecimalOrHex(s string, icp bool) (int, error) {
	t := event.TypeRotation
	if icp {
		t = event.TypeInception
	}
	return event.ParseThreshold(t, s)
}
