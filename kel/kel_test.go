package kel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aumos-ai/keri-core/event"
	"github.com/aumos-ai/keri-core/kel"
	"github.com/aumos-ai/keri-core/keys"
)

func freshInception(t *testing.T) (*event.Inception, *keys.Signer, *keys.Signer) {
	t.Helper()
	current, err := keys.NewRandom(true)
	require.NoError(t, err)
	next, err := keys.NewRandom(true)
	require.NoError(t, err)
	commitment, err := event.ComputeCommitment([]string{next.Verfer().Export()}, 1)
	require.NoError(t, err)

	icp, err := event.NewInception(event.InceptionParams{
		Keys:           []string{current.Verfer().Export()},
		Threshold:      1,
		NextKeysDigest: commitment,
		NextThreshold:  1,
	})
	require.NoError(t, err)
	return icp, current, next
}

func TestAppendAndGetEvents(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)

	b, err := icp.Marshal()
	require.NoError(t, err)
	sig := current.Sign(b)

	entry, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), entry.Sequence)

	events, err := log.GetEvents(icp.Prefix(), nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAppendIsIdempotent(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)

	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)
	_, err = log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	seq, err := log.CurrentSequence(icp.Prefix())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seq)
}

func TestAppendRefusesConflictingReplacement(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	first, err := event.NewInteraction(event.InteractionParams{
		Prefix:      icp.Prefix(),
		Sequence:    1,
		PriorDigest: icp.SAID(),
		Anchors:     []event.Anchor{{"note": "first"}},
	})
	require.NoError(t, err)
	fb, _ := first.Marshal()
	_, err = log.Append(icp.Prefix(), first, [][]byte{current.Sign(fb)})
	require.NoError(t, err)

	second, err := event.NewInteraction(event.InteractionParams{
		Prefix:      icp.Prefix(),
		Sequence:    1,
		PriorDigest: icp.SAID(),
		Anchors:     []event.Anchor{{"note": "second"}},
	})
	require.NoError(t, err)
	sb, _ := second.Marshal()
	_, err = log.Append(icp.Prefix(), second, [][]byte{current.Sign(sb)})
	require.Error(t, err)
}

func TestAppendRejectsNonContiguousSequence(t *testing.T) {
	log := kel.New()
	icp, current, next := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	newNext, err := keys.NewRandom(true)
	require.NoError(t, err)
	commitment, err := event.ComputeCommitment([]string{newNext.Verfer().Export()}, 1)
	require.NoError(t, err)

	rot, err := event.NewRotation(event.RotationParams{
		Prefix:         icp.Prefix(),
		Sequence:       2,
		PriorDigest:    icp.SAID(),
		Keys:           []string{next.Verfer().Export()},
		Threshold:      1,
		NextKeysDigest: commitment,
		NextThreshold:  1,
	})
	require.NoError(t, err)

	rb, _ := rot.Marshal()
	rsig := next.Sign(rb)
	_, err = log.Append(icp.Prefix(), rot, [][]byte{rsig})
	require.Error(t, err)
}

func TestVerifyChainAndBuildKeyState(t *testing.T) {
	log := kel.New()
	icp, current, next := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	newNext, err := keys.NewRandom(true)
	require.NoError(t, err)
	commitment, err := event.ComputeCommitment([]string{newNext.Verfer().Export()}, 1)
	require.NoError(t, err)

	rot, err := event.NewRotation(event.RotationParams{
		Prefix:         icp.Prefix(),
		Sequence:       1,
		PriorDigest:    icp.SAID(),
		Keys:           []string{next.Verfer().Export()},
		Threshold:      1,
		NextKeysDigest: commitment,
		NextThreshold:  1,
	})
	require.NoError(t, err)
	rb, _ := rot.Marshal()
	rsig := next.Sign(rb)
	_, err = log.Append(icp.Prefix(), rot, [][]byte{rsig})
	require.NoError(t, err)

	require.NoError(t, log.VerifyChain(icp.Prefix()))

	st, err := log.BuildKeyState(icp.Prefix())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.Sequence)
	assert.Equal(t, []string{next.Verfer().Export()}, st.Keys)
}

func TestStatsCountsEventsAndPrefixes(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	stats := log.Stats()
	assert.Equal(t, 1, stats.TotalPrefixes)
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Greater(t, stats.ApproxBytes, int64(0))
}

func TestClearRemovesPrefix(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	_, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	log.Clear(icp.Prefix())
	_, err = log.CurrentSequence(icp.Prefix())
	require.Error(t, err)
}

func TestAddReceiptsDeduplicates(t *testing.T) {
	log := kel.New()
	icp, current, _ := freshInception(t)
	b, _ := icp.Marshal()
	sig := current.Sign(b)
	entry, err := log.Append(icp.Prefix(), icp, [][]byte{sig})
	require.NoError(t, err)

	require.NoError(t, log.AddReceipts(icp.Prefix(), entry.Sequence, []string{"Bwit1", "Bwit2"}))
	require.NoError(t, log.AddReceipts(icp.Prefix(), entry.Sequence, []string{"Bwit2", "Bwit3"}))

	got, err := log.GetEventAt(icp.Prefix(), entry.Sequence)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bwit1", "Bwit2", "Bwit3"}, got.Receipts)
}
