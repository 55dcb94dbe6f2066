// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package event

import (
	"encoding/json"
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
)

type typeProbe struct {
	T string `json:"t"`
}

// Parse decodes canonical event JSON into the concrete Event
// implementation matching its t field, and validates it. Delegated
// tags (dip, drt) are recognized but rejected as unsupported — the
// variant reserves them for a future extension (§9).
func Parse(data []byte) (Event, error) {
	var probe typeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &kerierr.ErrMalformed{Context: "event JSON", Reason: err.Error()}
	}

	switch Type(probe.T) {
	case TypeInception:
		var icp Inception
		if err := json.Unmarshal(data, &icp); err != nil {
			return nil, &kerierr.ErrMalformed{Context: "icp event", Reason: err.Error()}
		}
		if err := icp.Validate(); err != nil {
			return nil, err
		}
		return &icp, nil
	case TypeRotation:
		var rot Rotation
		if err := json.Unmarshal(data, &rot); err != nil {
			return nil, &kerierr.ErrMalformed{Context: "rot event", Reason: err.Error()}
		}
		if err := rot.Validate(); err != nil {
			return nil, err
		}
		return &rot, nil
	case TypeInteraction:
		var ixn Interaction
		if err := json.Unmarshal(data, &ixn); err != nil {
			return nil, &kerierr.ErrMalformed{Context: "ixn event", Reason: err.Error()}
		}
		if err := ixn.Validate(); err != nil {
			return nil, err
		}
		return &ixn, nil
	case TypeDelegatedInception, TypeDelegatedRotation:
		return nil, &kerierr.ErrInvalidEvent{EventType: probe.T, Reason: "delegated events are reserved and not yet supported"}
	default:
		return nil, &kerierr.ErrInvalidEvent{EventType: probe.T, Reason: fmt.Sprintf("unknown event type %q", probe.T)}
	}
}

// Equal reports whether two events are byte-identical in their canonical
// serialization — used by the KEL to detect idempotent re-append (§4.6).
func Equal(a, b Event) (bool, error) {
	ab, err := a.Marshal()
	if err != nil {
		return false, err
	}
	bb, err := b.Marshal()
	if err != nil {
		return false, err
	}
	return string(ab) == string(bb), nil
}
