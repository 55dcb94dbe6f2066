package kerierr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessagesNameTheirSubject(t *testing.T) {
	assert.Contains(t, (&ErrMalformed{Context: "version string", Reason: "bad"}).Error(), "version string")
	assert.Contains(t, (&ErrInvalidEvent{EventType: "icp", Reason: "bad"}).Error(), "icp")
	assert.Contains(t, (&ErrChainViolation{Prefix: "Eabc", Sequence: 3, Reason: "bad"}).Error(), "Eabc")
	assert.Contains(t, (&ErrConflict{Prefix: "Eabc", Sequence: 1}).Error(), "Eabc")
	assert.Contains(t, (&ErrNotFound{Prefix: "Eabc"}).Error(), "Eabc")
	assert.Contains(t, (&ErrCrypto{Reason: "bad sig"}).Error(), "bad sig")
}

func TestErrNotFoundDistinguishesSequence(t *testing.T) {
	seq := uint64(5)
	withSeq := &ErrNotFound{Prefix: "Eabc", Sequence: &seq}
	withoutSeq := &ErrNotFound{Prefix: "Eabc"}
	assert.NotEqual(t, withSeq.Error(), withoutSeq.Error())
}
