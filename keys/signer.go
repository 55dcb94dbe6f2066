// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package keys provides the Ed25519 Signer/Verfer abstraction: random
// generation, deterministic signing, verification, and CESR text
// import/export. Signer and Verfer are immutable value types with no
// shared mutable state; every new_random draws from crypto/rand per call.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
	"github.com/aumos-ai/keri-core/matter"
)

// Signer wraps a 32-byte Ed25519 seed. Transferable determines whether the
// derived Verfer takes code D (transferable) or B (non-transferable).
type Signer struct {
	seed          *matter.Matter
	transferable  bool
	privateKey    ed25519.PrivateKey
}

// NewRandom generates a fresh Ed25519 seed from a cryptographically secure
// source and wraps it as a Signer.
func NewRandom(transferable bool) (*Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keys: generate Ed25519 key: %w", err)
	}
	return fromSeedBytes(priv.Seed(), transferable)
}

// Import parses a qb64-encoded Ed25519 seed (CESR code A).
func Import(qb64 string, transferable bool) (*Signer, error) {
	m, err := matter.DecodeQB64(qb64)
	if err != nil {
		return nil, fmt.Errorf("keys: import signer: %w", err)
	}
	if m.Code() != matter.CodeEd25519Seed {
		return nil, &kerierr.ErrCrypto{Reason: fmt.Sprintf("expected seed code %s, got %s", matter.CodeEd25519Seed, m.Code())}
	}
	return fromSeedBytes(m.Raw(), transferable)
}

func fromSeedBytes(seed []byte, transferable bool) (*Signer, error) {
	m, err := matter.NewFromRaw(matter.CodeEd25519Seed, seed)
	if err != nil {
		return nil, err
	}
	return &Signer{
		seed:         m,
		transferable: transferable,
		privateKey:   ed25519.NewKeyFromSeed(seed),
	}, nil
}

// Export returns the qb64 (CESR code A) form of the signer's seed.
func (s *Signer) Export() string { return s.seed.QB64() }

// Sign produces a 64-byte Ed25519 signature over message. Signing is
// deterministic per RFC 8032: the same seed and message always yield the
// same signature bytes.
func (s *Signer) Sign(message []byte) []byte {
	return ed25519.Sign(s.privateKey, message)
}

// Verfer derives the public Verfer counterpart of this Signer.
func (s *Signer) Verfer() *Verfer {
	pub := s.privateKey.Public().(ed25519.PublicKey)
	code := matter.CodeEd25519N
	if s.transferable {
		code = matter.CodeEd25519
	}
	// Construction cannot fail: pub is always 32 bytes from ed25519.
	m, _ := matter.NewFromRaw(code, pub)
	return &Verfer{m: m}
}

// Transferable reports whether this signer's derived Verfer uses the
// transferable (D) or non-transferable (B) CESR code.
func (s *Signer) Transferable() bool { return s.transferable }

// Verfer wraps an Ed25519 public key with CESR code D (transferable) or
// B (non-transferable).
type Verfer struct {
	m *matter.Matter
}

// ImportVerfer parses a qb64-encoded Ed25519 public key.
func ImportVerfer(qb64 string) (*Verfer, error) {
	m, err := matter.DecodeQB64(qb64)
	if err != nil {
		return nil, fmt.Errorf("keys: import verfer: %w", err)
	}
	if m.Code() != matter.CodeEd25519 && m.Code() != matter.CodeEd25519N {
		return nil, &kerierr.ErrCrypto{Reason: fmt.Sprintf("unexpected verfer code %s", m.Code())}
	}
	return &Verfer{m: m}, nil
}

// Export returns the qb64 form (CESR code D or B) of the public key.
func (v *Verfer) Export() string { return v.m.QB64() }

// Raw returns the raw 32-byte Ed25519 public key.
func (v *Verfer) Raw() []byte { return v.m.Raw() }

// Transferable reports whether this Verfer uses the transferable (D) code.
func (v *Verfer) Transferable() bool { return v.m.Code() == matter.CodeEd25519 }

// Verify reports whether signature is a valid Ed25519 signature over
// message under this Verfer's public key. It returns an error only for
// malformed inputs (wrong signature length); a cryptographically invalid
// signature yields (false, nil), never an error.
func (v *Verfer) Verify(signature, message []byte) (bool, error) {
	if len(signature) != ed25519.SignatureSize {
		return false, &kerierr.ErrCrypto{Reason: fmt.Sprintf("signature must be %d bytes, got %d", ed25519.SignatureSize, len(signature))}
	}
	return ed25519.Verify(ed25519.PublicKey(v.Raw()), message, signature), nil
}

// IndexedSignature pairs a raw signature with the index of the signing
// key within a multi-key signing threshold. Not exercised by the
// single-key facade; reserved for the multi-sig extension the spec's
// event-type taxonomy leaves room for.
type IndexedSignature struct {
	Signature []byte
	Index     int
}
