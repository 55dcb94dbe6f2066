// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package facade

import (
	"fmt"
	"sync"
	"time"

	"github.com/aumos-ai/keri-core/keys"
)

// RotationPolicy defines when automatic key rotation should occur.
type RotationPolicy struct {
	// MaxAge is the maximum time since an identifier was registered with, or
	// last rotated by, the scheduler before CheckAndRotate will rotate it.
	MaxAge time.Duration
	// Reason is recorded on the RotationRecord when automatic rotation fires.
	Reason string
}

// DefaultRotationPolicy returns a policy that rotates every 90 days.
func DefaultRotationPolicy() RotationPolicy {
	return RotationPolicy{MaxAge: 90 * 24 * time.Hour, Reason: "scheduled"}
}

// RotationRecord documents one rotation performed by a RotationScheduler.
type RotationRecord struct {
	Prefix      string
	OldSequence uint64
	NewSequence uint64
	Reason      string
	RotatedAt   time.Time
}

type trackedIdentifier struct {
	current     *keys.Signer
	next        *keys.Signer
	lastRotated time.Time
}

// RotationScheduler coordinates identity-continuity-preserving key
// rotation across many identifiers sharing a Manager. It holds the
// signers a prefix needs to rotate itself — the currently active one and
// the one already pre-committed as its successor — and tracks when each
// was last rotated.
type RotationScheduler struct {
	manager *Manager
	policy  RotationPolicy

	mu              sync.Mutex
	tracked         map[string]*trackedIdentifier
	rotationHistory map[string][]*RotationRecord
}

// NewRotationScheduler constructs a RotationScheduler over manager.
func NewRotationScheduler(manager *Manager, policy RotationPolicy) *RotationScheduler {
	return &RotationScheduler{
		manager:         manager,
		policy:          policy,
		tracked:         make(map[string]*trackedIdentifier),
		rotationHistory: make(map[string][]*RotationRecord),
	}
}

// Register starts tracking prefix for rotation, using the current and
// next signers returned by CreateIdentifier (or a prior RotateKeys).
// Call this after CreateIdentifier so the scheduler knows which keys to
// rotate with.
func (r *RotationScheduler) Register(prefix string, current, next *keys.Signer) {
	r.mu.Lock()
	r.tracked[prefix] = &trackedIdentifier{current: current, next: next, lastRotated: time.Now().UTC()}
	r.mu.Unlock()
}

// RotateNow rotates prefix immediately, regardless of policy.MaxAge,
// generating a fresh successor and recording the rotation.
func (r *RotationScheduler) RotateNow(prefix, reason string) (*RotationRecord, error) {
	r.mu.Lock()
	ti, ok := r.tracked[prefix]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("facade: rotate now — no identifier registered for %s", prefix)
	}

	st, err := r.manager.CurrentKeyState(prefix)
	if err != nil {
		return nil, fmt.Errorf("facade: rotate now — load state: %w", err)
	}

	newNext, err := keys.NewRandom(ti.next.Transferable())
	if err != nil {
		return nil, fmt.Errorf("facade: rotate now — generate successor: %w", err)
	}

	rot, err := r.manager.RotateKeys(prefix, RotateOptions{NewCurrent: ti.next, NewNext: newNext})
	if err != nil {
		return nil, fmt.Errorf("facade: rotate now — RotateKeys: %w", err)
	}
	seq, err := rot.Sequence()
	if err != nil {
		return nil, err
	}

	record := &RotationRecord{
		Prefix:      prefix,
		OldSequence: st.Sequence,
		NewSequence: seq,
		Reason:      reason,
		RotatedAt:   time.Now().UTC(),
	}

	r.mu.Lock()
	ti.current, ti.next, ti.lastRotated = ti.next, newNext, record.RotatedAt
	r.rotationHistory[prefix] = append(r.rotationHistory[prefix], record)
	r.mu.Unlock()

	return record, nil
}

// CheckAndRotate rotates prefix only if policy.MaxAge has elapsed since
// its last rotation. It returns (nil, nil) if no rotation was needed.
func (r *RotationScheduler) CheckAndRotate(prefix string) (*RotationRecord, error) {
	r.mu.Lock()
	ti, ok := r.tracked[prefix]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("facade: check and rotate — no identifier registered for %s", prefix)
	}
	if time.Since(ti.lastRotated) < r.policy.MaxAge {
		return nil, nil
	}
	return r.RotateNow(prefix, r.policy.Reason)
}

// History returns all recorded rotations for prefix, oldest first.
func (r *RotationScheduler) History(prefix string) []*RotationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	history := r.rotationHistory[prefix]
	if len(history) == 0 {
		return nil
	}
	out := make([]*RotationRecord, len(history))
	copy(out, history)
	return out
}
