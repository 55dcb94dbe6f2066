// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package digest computes BLAKE3-256 digests and wraps them in the CESR
// "E"-coded qb64 text form used as the self-addressing identifier (SAID)
// of every KERI event.
package digest

import (
	"github.com/zeebo/blake3"

	"github.com/aumos-ai/keri-core/matter"
)

// Digest is a BLAKE3-256 hash wrapped as a CESR matter of code E.
type Digest struct {
	m *matter.Matter
}

// Of computes the BLAKE3-256 digest of data.
func Of(data []byte) (*Digest, error) {
	sum := blake3.Sum256(data)
	m, err := matter.NewFromRaw(matter.CodeBlake3_256, sum[:])
	if err != nil {
		return nil, err
	}
	return &Digest{m: m}, nil
}

// FromQB64 parses a previously-encoded CESR digest string.
func FromQB64(qb64 string) (*Digest, error) {
	m, err := matter.DecodeQB64(qb64)
	if err != nil {
		return nil, err
	}
	return &Digest{m: m}, nil
}

// QB64 returns the CESR text form of the digest (44 characters, "E"-prefixed).
func (d *Digest) QB64() string { return d.m.QB64() }

// Raw returns the 32 raw digest bytes.
func (d *Digest) Raw() []byte { return d.m.Raw() }

// Verify reports whether d is the BLAKE3-256 digest of data.
func Verify(d *Digest, data []byte) (bool, error) {
	recomputed, err := Of(data)
	if err != nil {
		return false, err
	}
	return recomputed.QB64() == d.QB64(), nil
}
