package stacks

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/stacksauth/core"
)

func TestParseSignature65Bytes(t *testing.T) {
	raw := make([]byte, 65)
	raw[0] = 0x01 // wallet format tag, not a recovery id
	for i := 1; i < 65; i++ {
		raw[i] = byte(i)
	}

	parsed, err := ParseSignature("0x" + hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw[1:], parsed.RS[:])
	assert.Equal(t, RecoveryUnknown, parsed.RecoveryID)
}

func TestParseSignature64BytesNoPrefix(t *testing.T) {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i + 1)
	}

	parsed, err := ParseSignature(hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, parsed.RS[:])
	assert.Equal(t, RecoveryUnknown, parsed.RecoveryID)
}

func TestParseSignatureUppercasePrefix(t *testing.T) {
	raw := make([]byte, 64)
	_, err := ParseSignature("0X" + hex.EncodeToString(raw))
	require.NoError(t, err)
}

func TestParseSignatureOversized(t *testing.T) {
	// Padded encodings fall back to the trailing 64 bytes.
	raw := make([]byte, 72)
	for i := range raw {
		raw[i] = byte(i)
	}

	parsed, err := ParseSignature(hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw[8:], parsed.RS[:])
	assert.Equal(t, RecoveryUnknown, parsed.RecoveryID)
}

func TestParseSignatureInvalidLength(t *testing.T) {
	_, err := ParseSignature("0x1234")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidLength)
	assert.ErrorIs(t, err, core.ErrMalformedSignature)
}

func TestParseSignatureMalformedEncoding(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"non-hex characters", "0x" + strings.Repeat("zz", 64)},
		{"odd length", "0x" + strings.Repeat("ab", 64) + "c"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignature(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedEncoding)
			assert.ErrorIs(t, err, core.ErrMalformedSignature)
		})
	}
}
