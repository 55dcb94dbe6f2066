// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package kel implements the Key Event Log: a process-wide store mapping
// (identifier prefix, sequence) to log entries, with append-time chain
// integrity checks, receipt bookkeeping, chain verification, and key-state
// reconstruction.
//
// KEL is single-writer, multi-reader (§5): one sync.RWMutex guards two
// logical tables (entries and current-sequence heads), following the same
// shape as the teacher's InMemoryKeyStore/InMemoryStore — a mutex plus
// map(s), narrow critical sections, no internally spawned goroutines.
package kel

import (
	"sync"
	"time"

	"github.com/aumos-ai/keri-core/event"
	"github.com/aumos-ai/keri-core/kerierr"
	"github.com/aumos-ai/keri-core/state"
)

// Entry is an immutable (except for additive receipt append) record in
// the log (§3 "Log Entry").
type Entry struct {
	Prefix     string
	Sequence   uint64
	Event      event.Event
	Signatures [][]byte
	Receipts   []string
	Timestamp  time.Time
}

// Stats summarizes the KEL's current contents (§4.6 "stats").
type Stats struct {
	TotalPrefixes  int
	TotalEvents    int
	ApproxBytes    int64
}

// KEL is the process-wide Key Event Log. The zero value is not usable;
// construct with New.
type KEL struct {
	mu      sync.RWMutex
	entries map[string]map[uint64]*Entry
	heads   map[string]uint64
	hasHead map[string]bool
}

// New constructs an empty KEL. Its two tables live for the lifetime of
// this value (§5 "Shared resources").
func New() *KEL {
	return &KEL{
		entries: make(map[string]map[uint64]*Entry),
		heads:   make(map[string]uint64),
		hasHead: make(map[string]bool),
	}
}

// Append validates and inserts ev at (prefix, ev.Sequence()). A byte-
// identical re-insertion at an occupied slot succeeds idempotently
// (P11); a different event at an occupied slot is refused as a conflict
// (P12). Any rejected append leaves all tables unchanged (§7).
func (k *KEL) Append(prefix string, ev event.Event, signatures [][]byte) (*Entry, error) {
	if ev.Prefix() != prefix {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(ev.Type()), Reason: "event.i does not match target prefix"}
	}
	if ev.Type() == event.TypeDelegatedInception || ev.Type() == event.TypeDelegatedRotation {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(ev.Type()), Reason: "delegated events are not supported by this core"}
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	seq, err := ev.Sequence()
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	byPrefix, known := k.entries[prefix]
	if !known {
		byPrefix = make(map[uint64]*Entry)
	}

	if existing, ok := byPrefix[seq]; ok {
		same, err := event.Equal(existing.Event, ev)
		if err != nil {
			return nil, err
		}
		if !same {
			return nil, &kerierr.ErrConflict{Prefix: prefix, Sequence: seq}
		}
		return existing, nil
	}

	if len(byPrefix) == 0 {
		if seq != 0 {
			return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: seq, Reason: "first event for a prefix must have sequence 0"}
		}
		if ev.Type() != event.TypeInception {
			return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: seq, Reason: "first event for a prefix must be an inception"}
		}
	} else {
		currentSeq := k.heads[prefix]
		if seq != currentSeq+1 {
			return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: seq, Reason: "sequence is not contiguous with the current head"}
		}
		prior, ok := byPrefix[currentSeq]
		if !ok {
			return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: seq, Reason: "prior event not found"}
		}
		priorDigest, present := ev.PriorDigest()
		if !present || priorDigest != prior.Event.SAID() {
			return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: seq, Reason: "p does not equal prior event's digest"}
		}
	}

	entry := &Entry{
		Prefix:     prefix,
		Sequence:   seq,
		Event:      ev,
		Signatures: signatures,
		Receipts:   []string{},
		Timestamp:  time.Now().UTC(),
	}
	byPrefix[seq] = entry
	k.entries[prefix] = byPrefix
	k.heads[prefix] = seq
	k.hasHead[prefix] = true

	return entry, nil
}

// GetEvents returns entries for prefix with sequence in [from, to]
// (inclusive, nil meaning unbounded), ascending by sequence, capped at
// limit entries if limit is non-nil.
func (k *KEL) GetEvents(prefix string, from, to *uint64, limit *int) ([]*Entry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	byPrefix, ok := k.entries[prefix]
	if !ok {
		return nil, &kerierr.ErrNotFound{Prefix: prefix}
	}

	out := make([]*Entry, 0, len(byPrefix))
	for seq := uint64(0); seq <= k.heads[prefix]; seq++ {
		entry, ok := byPrefix[seq]
		if !ok {
			continue
		}
		if from != nil && seq < *from {
			continue
		}
		if to != nil && seq > *to {
			continue
		}
		if limit != nil && len(out) >= *limit {
			break
		}
		out = append(out, entry)
	}
	return out, nil
}

// GetEventAt returns the single entry at (prefix, seq).
func (k *KEL) GetEventAt(prefix string, seq uint64) (*Entry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	byPrefix, ok := k.entries[prefix]
	if !ok {
		return nil, &kerierr.ErrNotFound{Prefix: prefix}
	}
	entry, ok := byPrefix[seq]
	if !ok {
		s := seq
		return nil, &kerierr.ErrNotFound{Prefix: prefix, Sequence: &s}
	}
	return entry, nil
}

// CurrentSequence returns the highest sequence logged for prefix.
func (k *KEL) CurrentSequence(prefix string) (uint64, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if !k.hasHead[prefix] {
		return 0, &kerierr.ErrNotFound{Prefix: prefix}
	}
	return k.heads[prefix], nil
}

// AddReceipts appends receipts to an existing entry's receipt list,
// deduplicating against what is already recorded. Receipts are stored,
// not verified (§9 "Receipts handling").
func (k *KEL) AddReceipts(prefix string, seq uint64, receipts []string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	byPrefix, ok := k.entries[prefix]
	if !ok {
		return &kerierr.ErrNotFound{Prefix: prefix}
	}
	entry, ok := byPrefix[seq]
	if !ok {
		s := seq
		return &kerierr.ErrNotFound{Prefix: prefix, Sequence: &s}
	}

	seen := make(map[string]struct{}, len(entry.Receipts))
	for _, r := range entry.Receipts {
		seen[r] = struct{}{}
	}
	for _, r := range receipts {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		entry.Receipts = append(entry.Receipts, r)
	}
	return nil
}

// VerifyChain replays all entries for prefix and checks that the first
// is an inception, subsequent sequences advance by exactly 1, and each
// event's p equals the prior event's d. It performs no signature
// verification (§4.6).
func (k *KEL) VerifyChain(prefix string) error {
	entries, err := k.GetEvents(prefix, nil, nil, nil)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return &kerierr.ErrNotFound{Prefix: prefix}
	}
	if entries[0].Event.Type() != event.TypeInception {
		return &kerierr.ErrChainViolation{Prefix: prefix, Sequence: 0, Reason: "first entry is not an inception"}
	}

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Sequence != prev.Sequence+1 {
			return &kerierr.ErrChainViolation{Prefix: prefix, Sequence: cur.Sequence, Reason: "sequence does not advance by exactly 1"}
		}
		priorDigest, present := cur.Event.PriorDigest()
		if !present || priorDigest != prev.Event.SAID() {
			return &kerierr.ErrChainViolation{Prefix: prefix, Sequence: cur.Sequence, Reason: "p does not equal prior event's digest"}
		}
	}
	return nil
}

// BuildKeyState folds from_inception followed by apply_rotation /
// apply_interaction over the ordered events for prefix, returning the
// terminal KeyState (§4.6).
func (k *KEL) BuildKeyState(prefix string) (*state.KeyState, error) {
	entries, err := k.GetEvents(prefix, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &kerierr.ErrNotFound{Prefix: prefix}
	}

	icp, ok := entries[0].Event.(*event.Inception)
	if !ok {
		return nil, &kerierr.ErrChainViolation{Prefix: prefix, Sequence: 0, Reason: "first entry is not an inception"}
	}
	st, err := state.FromInception(icp)
	if err != nil {
		return nil, err
	}
	st.Timestamp = entries[0].Timestamp

	for _, entry := range entries[1:] {
		switch ev := entry.Event.(type) {
		case *event.Rotation:
			st, err = state.ApplyRotation(st, ev)
		case *event.Interaction:
			st, err = state.ApplyInteraction(st, ev)
		default:
			err = &kerierr.ErrInvalidEvent{EventType: string(entry.Event.Type()), Reason: "unsupported event type in log replay"}
		}
		if err != nil {
			return nil, err
		}
		st.Timestamp = entry.Timestamp
	}
	return st, nil
}

// Clear destructively removes all entries and the sequence index for
// prefix.
func (k *KEL) Clear(prefix string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	delete(k.entries, prefix)
	delete(k.heads, prefix)
	delete(k.hasHead, prefix)
}

// Stats reports aggregate counters across all prefixes.
func (k *KEL) Stats() Stats {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var s Stats
	s.TotalPrefixes = len(k.entries)
	for _, byPrefix := range k.entries {
		s.TotalEvents += len(byPrefix)
		for _, entry := range byPrefix {
			b, err := entry.Event.Marshal()
			if err == nil {
				s.ApproxBytes += int64(len(b))
			}
		}
	}
	return s
}
