// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package matter implements the CESR (Composable Event Streaming
// Representation) text codec used throughout the KERI core. A "matter"
// value is a (code, raw-bytes) pair; qb64 is the self-describing text
// form: the code prefix concatenated with the unpadded base64url
// encoding of raw, sized per a fixed table keyed by code.
package matter

import (
	"encoding/base64"
	"fmt"

	"github.com/aumos-ai/keri-core/kerierr"
)

// Code identifies the kind of primitive a Matter holds.
type Code string

const (
	// CodeEd25519Seed is a 32-byte Ed25519 seed.
	CodeEd25519Seed Code = "A"
	// CodeEd25519N is a 32-byte Ed25519 non-transferable public key.
	CodeEd25519N Code = "B"
	// CodeEd25519 is a 32-byte Ed25519 transferable public key.
	CodeEd25519 Code = "D"
	// CodeBlake3_256 is a 32-byte BLAKE3-256 digest.
	CodeBlake3_256 Code = "E"
	// CodeEd25519Sig is a 64-byte Ed25519 signature.
	CodeEd25519Sig Code = "0B"
)

// sizage mirrors the CESR size table: raw byte length and total qb64
// character length for each supported code. hardSize is the length of
// the code prefix itself.
type sizage struct {
	hardSize int
	rawSize  int
	qb64Size int
}

var sizes = map[Code]sizage{
	CodeEd25519Seed: {hardSize: 1, rawSize: 32, qb64Size: 44},
	CodeEd25519N:    {hardSize: 1, rawSize: 32, qb64Size: 44},
	CodeEd25519:     {hardSize: 1, rawSize: 32, qb64Size: 44},
	CodeBlake3_256:  {hardSize: 1, rawSize: 32, qb64Size: 44},
	CodeEd25519Sig:  {hardSize: 2, rawSize: 64, qb64Size: 88},
}

// hards maps a leading qb64 character to the hard (code) size, so the
// code can be extracted before it is known to be one of the sizes above.
var hards = map[byte]int{
	'0': 2,
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		if _, ok := hards[byte(c)]; !ok {
			hards[byte(c)] = 1
		}
	}
}

// Matter is an immutable (code, raw) pair with its qb64 text encoding.
type Matter struct {
	code Code
	raw  []byte
	qb64 string
}

// NewFromRaw constructs a Matter from raw bytes under the given code.
// The raw length must exactly match the code's size table entry.
func NewFromRaw(code Code, raw []byte) (*Matter, error) {
	sz, ok := sizes[code]
	if !ok {
		return nil, &kerierr.ErrMalformed{Context: "CESR code", Reason: fmt.Sprintf("unknown code %q", code)}
	}
	if len(raw) != sz.rawSize {
		return nil, &kerierr.ErrMalformed{
			Context: "CESR raw bytes",
			Reason:  fmt.Sprintf("code %s requires %d raw bytes, got %d", code, sz.rawSize, len(raw)),
		}
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	qb64 := string(code) + encoded
	if len(qb64) != sz.qb64Size {
		return nil, &kerierr.ErrMalformed{
			Context: "CESR qb64",
			Reason:  fmt.Sprintf("code %s produced qb64 of length %d, expected %d", code, len(qb64), sz.qb64Size),
		}
	}

	return &Matter{code: code, raw: append([]byte(nil), raw...), qb64: qb64}, nil
}

// DecodeQB64 parses a qb64 string, recognizing its code and validating its
// length against the size table.
func DecodeQB64(qb64 string) (*Matter, error) {
	if qb64 == "" {
		return nil, &kerierr.ErrMalformed{Context: "CESR qb64", Reason: "empty string"}
	}

	hs, ok := hards[qb64[0]]
	if !ok {
		return nil, &kerierr.ErrMalformed{Context: "CESR qb64", Reason: fmt.Sprintf("unrecognized leading byte %q", qb64[0])}
	}
	if len(qb64) < hs {
		return nil, &kerierr.ErrMalformed{Context: "CESR qb64", Reason: "too short for its code"}
	}
	code := Code(qb64[:hs])

	sz, ok := sizes[code]
	if !ok {
		return nil, &kerierr.ErrMalformed{Context: "CESR code", Reason: fmt.Sprintf("unknown code %q", code)}
	}
	if len(qb64) != sz.qb64Size {
		return nil, &kerierr.ErrMalformed{
			Context: "CESR qb64",
			Reason:  fmt.Sprintf("code %s expects qb64 length %d, got %d", code, sz.qb64Size, len(qb64)),
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(qb64[hs:])
	if err != nil {
		return nil, &kerierr.ErrMalformed{Context: "CESR qb64", Reason: fmt.Sprintf("base64url decode: %v", err)}
	}
	if len(raw) != sz.rawSize {
		return nil, &kerierr.ErrMalformed{
			Context: "CESR raw bytes",
			Reason:  fmt.Sprintf("code %s decoded %d raw bytes, expected %d", code, len(raw), sz.rawSize),
		}
	}

	return &Matter{code: code, raw: raw, qb64: qb64}, nil
}

// Code returns the CESR code of this Matter.
func (m *Matter) Code() Code { return m.code }

// Raw returns the raw bytes underlying this Matter. Callers must not
// mutate the returned slice.
func (m *Matter) Raw() []byte { return m.raw }

// QB64 returns the qb64 text encoding of this Matter.
func (m *Matter) QB64() string { return m.qb64 }

// Bytes returns the CESR binary (qb2-equivalent) form: the code bytes
// concatenated with raw. Reserved for future wire-transport use; not
// required by the canonical JSON event serialization in this core.
func (m *Matter) Bytes() []byte {
	out := make([]byte, 0, len(m.code)+len(m.raw))
	out = append(out, m.code...)
	out = append(out, m.raw...)
	return out
}
