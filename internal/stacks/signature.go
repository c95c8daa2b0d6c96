package stacks

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/layer-3/stacksauth/core"
)

// RecoveryUnknown marks a parsed signature carrying no recovery hint;
// the recovery engine must try all four candidate ids.
const RecoveryUnknown = -1

// ParsedSignature is a wallet signature normalized to the canonical
// 64-byte r||s scalar pair plus an optional recovery hint.
type ParsedSignature struct {
	RS         [64]byte
	RecoveryID int
}

// ParseSignature normalizes the heterogeneous signature encodings
// produced by wallet signing libraries. Input is hex text with an
// optional 0x prefix. A 65-byte signature is treated as a leading
// format tag followed by r||s: the tag is not a recovery id, so all
// four ids must be tried downstream. A 64-byte signature is r||s
// directly.
func ParseSignature(signature string) (*ParsedSignature, error) {
	s := signature
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedEncoding, err)
	}

	parsed := &ParsedSignature{RecoveryID: RecoveryUnknown}
	switch {
	case len(raw) == 65:
		copy(parsed.RS[:], raw[1:])
	case len(raw) == 64:
		copy(parsed.RS[:], raw)
	case len(raw) > 65:
		// Experimental fallback for padded encodings: take the trailing
		// 64 bytes as r||s. No known wallet produces this shape.
		copy(parsed.RS[:], raw[len(raw)-64:])
	default:
		return nil, fmt.Errorf("%w: %d bytes, want 64 or 65", core.ErrInvalidLength, len(raw))
	}
	return parsed, nil
}
