package segwire

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := malformed("struct of %d words out of bounds", 3)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, &Error{Kind: KindMalformed})
	assert.NotErrorIs(t, err, ErrResourceExhausted)
	assert.NotErrorIs(t, err, &Error{Kind: KindAllocation})
	assert.Equal(t, "malformed message: struct of 3 words out of bounds", err.Error())
}

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("segment 2 has 9 bytes")
	err := fmt.Errorf("reading: %w", &Error{Kind: KindMalformed, Msg: "segment table", Err: cause})
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, cause)

	var e *Error
	if assert.ErrorAs(t, err, &e) {
		assert.Equal(t, KindMalformed, e.Kind)
	}
	assert.Contains(t, err.Error(), "segment table: segment 2 has 9 bytes")
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "union discriminant mismatch", KindUnionMismatch.String())
	assert.Equal(t, "kind(0)", ErrorKind(0).String())
	assert.ErrorIs(t, allocFailed(errors.New("x")), ErrAllocation)
	assert.ErrorIs(t, exhausted("nesting"), ErrResourceExhausted)
}
