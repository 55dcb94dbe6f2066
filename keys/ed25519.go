// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

package keys

import (
	"context"
	"fmt"
	"sync"

	"github.com/aumos-ai/keri-core/kerierr"
)

// SignerStore persists Signer values under a caller-chosen slot name — an
// identifier prefix, a witness ID, or any other key a process wants to
// look them up by later.
type SignerStore interface {
	Generate(ctx context.Context, slot string, transferable bool) (*Signer, error)
	Store(ctx context.Context, slot string, signer *Signer) error
	Load(ctx context.Context, slot string) (*Signer, error)
	List(ctx context.Context) ([]string, error)
	Sign(ctx context.Context, slot string, message []byte) ([]byte, error)
}

// InMemorySignerStore is a thread-safe, in-process SignerStore. Key
// material exists only for the lifetime of the process.
type InMemorySignerStore struct {
	mu      sync.RWMutex
	signers map[string]*Signer
}

// NewInMemorySignerStore constructs an empty InMemorySignerStore.
func NewInMemorySignerStore() *InMemorySignerStore {
	return &InMemorySignerStore{signers: make(map[string]*Signer)}
}

// Generate creates a fresh signer, stores it under slot, and returns it.
func (s *InMemorySignerStore) Generate(_ context.Context, slot string, transferable bool) (*Signer, error) {
	signer, err := NewRandom(transferable)
	if err != nil {
		return nil, fmt.Errorf("keys: generate signer for %s: %w", slot, err)
	}
	s.mu.Lock()
	s.signers[slot] = signer
	s.mu.Unlock()
	return signer, nil
}

// Store saves an externally provided signer under slot.
func (s *InMemorySignerStore) Store(_ context.Context, slot string, signer *Signer) error {
	if signer == nil {
		return fmt.Errorf("keys: cannot store nil Signer")
	}
	if slot == "" {
		return fmt.Errorf("keys: slot must not be empty")
	}
	s.mu.Lock()
	s.signers[slot] = signer
	s.mu.Unlock()
	return nil
}

// Load retrieves the signer stored under slot.
func (s *InMemorySignerStore) Load(_ context.Context, slot string) (*Signer, error) {
	s.mu.RLock()
	signer, ok := s.signers[slot]
	s.mu.RUnlock()
	if !ok {
		return nil, &kerierr.ErrNotFound{Prefix: slot}
	}
	return signer, nil
}

// List returns all slot names currently held in the store.
func (s *InMemorySignerStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := make([]string, 0, len(s.signers))
	for slot := range s.signers {
		slots = append(slots, slot)
	}
	return slots, nil
}

// Sign produces a signature over message using the signer stored under slot.
func (s *InMemorySignerStore) Sign(ctx context.Context, slot string, message []byte) ([]byte, error) {
	signer, err := s.Load(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("keys: sign — load %s: %w", slot, err)
	}
	return signer.Sign(message), nil
}
