// SPDX-License-Identifier: BSL-1.1
// Copyright (c) 2026 MuVeraAI Corporation

// Package facade is the primary package for working with identifiers end
// to end. It provides Manager (the main service object) wrapping a Key
// Event Log, combining key generation, event construction, signing, and
// chain/signature verification into single calls.
package facade

import (
	"context"
	"fmt"

	"github.com/aumos-ai/keri-core/digest"
	"github.com/aumos-ai/keri-core/event"
	"github.com/aumos-ai/keri-core/kel"
	"github.com/aumos-ai/keri-core/kerierr"
	"github.com/aumos-ai/keri-core/keys"
	"github.com/aumos-ai/keri-core/state"
)

// Identifier is the handle CreateIdentifier returns: the inception event
// plus the two signers a caller needs to keep custody of — the one
// currently authoritative, and the one already pre-committed as its
// successor.
type Identifier struct {
	Prefix       string
	Inception    *event.Inception
	CurrentSigner *keys.Signer
	NextSigner    *keys.Signer
}

// CreateOptions carries parameters for Manager.CreateIdentifier. This
// core restricts every identifier to a single signing key and a single
// pre-committed successor key (threshold 1 throughout), per the open
// question on multi-key thresholds.
type CreateOptions struct {
	// Transferable selects the CESR code (D) used for this identifier's
	// keys; false derives non-transferable (B) keys. RotateKeys does not
	// check this flag: identifiers with B keys can be rotated like any other.
	Transferable bool
	// Threshold and NextThreshold default to event.Ample(1) == 1 (the
	// only value this core's single-key path can take) when left zero.
	// Non-zero values are passed through unchanged; with one key and one
	// commitment digest, event validation rejects any value above 1.
	Threshold        int
	NextThreshold    int
	WitnessThreshold int
	Witnesses        []string
	Config           []string
	Anchors          []event.Anchor
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Log is the Key Event Log new identifiers are appended to. Required.
	Log *kel.KEL
	// Signers persists the signers a Manager generates, keyed by prefix,
	// so a caller that didn't retain an Identifier's signers itself can
	// recover them later via LoadSigner. Defaults to a fresh
	// keys.InMemorySignerStore.
	Signers keys.SignerStore
}

// Manager is the primary service object. All exported methods are safe
// for concurrent use from multiple goroutines; the underlying KEL
// serializes its own writes.
type Manager struct {
	log     *kel.KEL
	signers keys.SignerStore
}

// NewManager constructs a Manager from the provided options.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Log == nil {
		return nil, fmt.Errorf("facade: ManagerOptions.Log must not be nil")
	}
	signers := opts.Signers
	if signers == nil {
		signers = keys.NewInMemorySignerStore()
	}
	return &Manager{log: opts.Log, signers: signers}, nil
}

// signerSlot names the SignerStore slot a Manager persists a given
// identifier's current or next signer under.
func signerSlot(prefix, which string) string {
	return prefix + ":" + which
}

// CreateIdentifier generates a current signing key and its pre-committed
// successor, builds and self-signs an inception event, appends it to the
// log, and returns the new Identifier handle.
func (m *Manager) CreateIdentifier(opts CreateOptions) (*Identifier, error) {
	current, err := keys.NewRandom(opts.Transferable)
	if err != nil {
		return nil, fmt.Errorf("facade: create identifier — generate current key: %w", err)
	}
	next, err := keys.NewRandom(opts.Transferable)
	if err != nil {
		return nil, fmt.Errorf("facade: create identifier — generate next key: %w", err)
	}
	ctx := context.Background()

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = event.Ample(1)
	}
	nextThreshold := opts.NextThreshold
	if nextThreshold == 0 {
		nextThreshold = event.Ample(1)
	}

	commitment, err := event.ComputeCommitment([]string{next.Verfer().Export()}, nextThreshold)
	if err != nil {
		return nil, fmt.Errorf("facade: create identifier — commitment: %w", err)
	}

	icp, err := event.NewInception(event.InceptionParams{
		Keys:             []string{current.Verfer().Export()},
		Threshold:        threshold,
		NextKeysDigest:   commitment,
		NextThreshold:    nextThreshold,
		WitnessThreshold: opts.WitnessThreshold,
		Witnesses:        opts.Witnesses,
		Config:           opts.Config,
		Anchors:          opts.Anchors,
	})
	if err != nil {
		return nil, fmt.Errorf("facade: create identifier — build inception: %w", err)
	}

	sig, err := signEvent(current, icp)
	if err != nil {
		return nil, err
	}

	if _, err := m.log.Append(icp.Prefix(), icp, [][]byte{sig}); err != nil {
		return nil, fmt.Errorf("facade: create identifier — append: %w", err)
	}

	if err := m.signers.Store(ctx, signerSlot(icp.Prefix(), "current"), current); err != nil {
		return nil, fmt.Errorf("facade: create identifier — persist current signer: %w", err)
	}
	if err := m.signers.Store(ctx, signerSlot(icp.Prefix(), "next"), next); err != nil {
		return nil, fmt.Errorf("facade: create identifier — persist next signer: %w", err)
	}

	return &Identifier{
		Prefix:        icp.Prefix(),
		Inception:     icp,
		CurrentSigner: current,
		NextSigner:    next,
	}, nil
}

// RotateOptions carries parameters for Manager.RotateKeys.
type RotateOptions struct {
	// NewCurrent must be the signer previously returned as NextSigner —
	// the key committed to by the prior establishment event. Required.
	NewCurrent *keys.Signer
	// NewNext is freshly generated and becomes the successor commitment
	// for the rotation this call produces. Required.
	NewNext *keys.Signer
	// Threshold and NextThreshold default to event.Ample(1) == 1 when
	// left zero; see CreateOptions.
	Threshold        int
	NextThreshold    int
	WitnessThreshold int
	WitnessCuts      []string
	WitnessAdds      []string
	Anchors          []event.Anchor
}

// RotateKeys replaces an identifier's current key with the one
// pre-committed at its last establishment event, commits a fresh
// successor, signs the rotation with the newly current key, and appends
// it to the log.
func (m *Manager) RotateKeys(prefix string, opts RotateOptions) (*event.Rotation, error) {
	if opts.NewCurrent == nil || opts.NewNext == nil {
		return nil, fmt.Errorf("facade: rotate keys: NewCurrent and NewNext must not be nil")
	}

	st, err := m.log.BuildKeyState(prefix)
	if err != nil {
		return nil, fmt.Errorf("facade: rotate keys — load state: %w", err)
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = event.Ample(1)
	}
	nextThreshold := opts.NextThreshold
	if nextThreshold == 0 {
		nextThreshold = event.Ample(1)
	}

	commitment, err := event.ComputeCommitment([]string{opts.NewNext.Verfer().Export()}, nextThreshold)
	if err != nil {
		return nil, fmt.Errorf("facade: rotate keys — commitment: %w", err)
	}

	rot, err := event.NewRotation(event.RotationParams{
		Prefix:           prefix,
		Sequence:         st.Sequence + 1,
		PriorDigest:      st.Digest,
		Keys:             []string{opts.NewCurrent.Verfer().Export()},
		Threshold:        threshold,
		NextKeysDigest:   commitment,
		NextThreshold:    nextThreshold,
		WitnessThreshold: opts.WitnessThreshold,
		WitnessCuts:      opts.WitnessCuts,
		WitnessAdds:      opts.WitnessAdds,
		Anchors:          opts.Anchors,
	})
	if err != nil {
		return nil, fmt.Errorf("facade: rotate keys — build rotation: %w", err)
	}

	sig, err := signEvent(opts.NewCurrent, rot)
	if err != nil {
		return nil, err
	}

	if _, err := m.log.Append(prefix, rot, [][]byte{sig}); err != nil {
		return nil, fmt.Errorf("facade: rotate keys — append: %w", err)
	}

	ctx := context.Background()
	if err := m.signers.Store(ctx, signerSlot(prefix, "current"), opts.NewCurrent); err != nil {
		return nil, fmt.Errorf("facade: rotate keys — persist current signer: %w", err)
	}
	if err := m.signers.Store(ctx, signerSlot(prefix, "next"), opts.NewNext); err != nil {
		return nil, fmt.Errorf("facade: rotate keys — persist next signer: %w", err)
	}
	return rot, nil
}

// CreateInteraction anchors data onto an identifier's log without
// changing key material, signed by its currently established key.
// It fails if the identifier was incepted establishment-only.
func (m *Manager) CreateInteraction(prefix string, signer *keys.Signer, anchors []event.Anchor) (*event.Interaction, error) {
	st, err := m.log.BuildKeyState(prefix)
	if err != nil {
		return nil, fmt.Errorf("facade: create interaction — load state: %w", err)
	}
	if st.EstablishmentOnly {
		return nil, &kerierr.ErrInvalidEvent{EventType: string(event.TypeInteraction), Reason: "identifier is establishment-only; interaction events are refused"}
	}

	ixn, err := event.NewInteraction(event.InteractionParams{
		Prefix:      prefix,
		Sequence:    st.Sequence + 1,
		PriorDigest: st.Digest,
		Anchors:     anchors,
	})
	if err != nil {
		return nil, fmt.Errorf("facade: create interaction — build: %w", err)
	}

	sig, err := signEvent(signer, ixn)
	if err != nil {
		return nil, err
	}

	if _, err := m.log.Append(prefix, ixn, [][]byte{sig}); err != nil {
		return nil, fmt.Errorf("facade: create interaction — append: %w", err)
	}
	return ixn, nil
}

// GetEvents returns the logged entries for prefix in the given range.
func (m *Manager) GetEvents(prefix string, from, to *uint64, limit *int) ([]*kel.Entry, error) {
	return m.log.GetEvents(prefix, from, to, limit)
}

// AddReceipts attaches witness receipt identifiers to the KEL entry at
// (prefix, sequence), deduplicating against any already recorded there.
func (m *Manager) AddReceipts(prefix string, sequence uint64, receipts []string) error {
	return m.log.AddReceipts(prefix, sequence, receipts)
}

// CurrentKeyState returns the reconstructed KeyState for prefix.
func (m *Manager) CurrentKeyState(prefix string) (*state.KeyState, error) {
	return m.log.BuildKeyState(prefix)
}

// LoadSigner retrieves the signer the Manager persisted for prefix under
// "current" or "next" — the same signers CreateIdentifier and RotateKeys
// return directly — for a caller that did not retain its own copy.
func (m *Manager) LoadSigner(prefix, which string) (*keys.Signer, error) {
	signer, err := m.signers.Load(context.Background(), signerSlot(prefix, which))
	if err != nil {
		return nil, fmt.Errorf("facade: load signer: %w", err)
	}
	return signer, nil
}

// Digest computes the CESR qb64 BLAKE3-256 digest of arbitrary data, for
// callers that want to anchor a reference to external content.
func (m *Manager) Digest(data []byte) (string, error) {
	d, err := digest.Of(data)
	if err != nil {
		return "", fmt.Errorf("facade: digest: %w", err)
	}
	return d.QB64(), nil
}

// VerifyIdentifier replays an identifier's full event chain, checking
// sequence contiguity and prior-digest links (via kel.VerifyChain) and,
// additionally, that each entry carries enough valid signatures to meet
// its own signing threshold: inception and rotation events authenticate
// against the keys they themselves introduce, interaction events against
// the keys established by the most recent prior establishment event.
func (m *Manager) VerifyIdentifier(prefix string) (*state.KeyState, error) {
	if err := m.log.VerifyChain(prefix); err != nil {
		return nil, err
	}

	entries, err := m.log.GetEvents(prefix, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var establishedKeys []string
	var establishedThreshold int

	for _, entry := range entries {
		var signingKeys []string
		var threshold int

		switch ev := entry.Event.(type) {
		case *event.Inception:
			kt, err := event.ParseThreshold(event.TypeInception, ev.KT)
			if err != nil {
				return nil, err
			}
			signingKeys, establishedKeys = ev.K, ev.K
			threshold, establishedThreshold = kt, kt
		case *event.Rotation:
			kt, err := event.ParseThreshold(event.TypeRotation, ev.KT)
			if err != nil {
				return nil, err
			}
			signingKeys, establishedKeys = ev.K, ev.K
			threshold, establishedThreshold = kt, kt
		case *event.Interaction:
			signingKeys, threshold = establishedKeys, establishedThreshold
		}

		message, err := entry.Event.Marshal()
		if err != nil {
			return nil, err
		}
		if err := verifyThreshold(signingKeys, threshold, entry.Signatures, message); err != nil {
			return nil, err
		}
	}

	st, err := m.log.BuildKeyState(prefix)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// signEvent marshals ev and signs its canonical bytes with signer.
func signEvent(signer *keys.Signer, ev event.Event) ([]byte, error) {
	b, err := ev.Marshal()
	if err != nil {
		return nil, fmt.Errorf("facade: sign event: %w", err)
	}
	return signer.Sign(b), nil
}

// verifyThreshold checks that at least threshold of the positionally
// paired (keyQb64[i], signatures[i]) signatures verify over message.
func verifyThreshold(keyQb64 []string, threshold int, signatures [][]byte, message []byte) error {
	if threshold <= 0 {
		return &kerierr.ErrCrypto{Reason: "threshold must be positive"}
	}
	if len(signatures) < threshold {
		return &kerierr.ErrCrypto{Reason: fmt.Sprintf("have %d signatures, need at least %d", len(signatures), threshold)}
	}

	satisfied := 0
	limit := len(keyQb64)
	if len(signatures) < limit {
		limit = len(signatures)
	}
	for i := 0; i < limit; i++ {
		v, err := keys.ImportVerfer(keyQb64[i])
		if err != nil {
			return err
		}
		ok, err := v.Verify(signatures[i], message)
		if err != nil {
			return err
		}
		if ok {
			satisfied++
		}
	}
	if satisfied < threshold {
		return &kerierr.ErrCrypto{Reason: fmt.Sprintf("only %d of %d required signatures verify", satisfied, threshold)}
	}
	return nil
}
