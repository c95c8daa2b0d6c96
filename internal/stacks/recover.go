package stacks

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/layer-3/stacksauth/core"
)

// Compact signature header layout: 27 + recovery id, +4 when the
// recovered key is compressed.
const (
	compactMagicOffset    byte = 27
	compactCompressedFlag byte = 4
)

// RecoverAndMatch recovers candidate public keys from the parsed
// signature and digest, and returns the compressed key whose derived
// address equals the claimed address. The hinted recovery id is tried
// when present, otherwise all four; each candidate is checked against
// both the mainnet and testnet derivation. An address match alone is
// not authoritative: the raw r||s pair must also verify against the
// matched key through the non-recovering ECDSA path.
func RecoverAndMatch(sig *ParsedSignature, digest []byte, address string) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", sha256.Size, len(digest))
	}

	candidates := []int{0, 1, 2, 3}
	if sig.RecoveryID != RecoveryUnknown {
		candidates = []int{sig.RecoveryID}
	}

	compact := make([]byte, 65)
	copy(compact[1:], sig.RS[:])

	for _, id := range candidates {
		compact[0] = compactMagicOffset + byte(id) + compactCompressedFlag
		pub, _, err := secpecdsa.RecoverCompact(compact, digest)
		if err != nil {
			// This id does not yield a valid curve point; not fatal.
			continue
		}

		pubBytes := pub.SerializeCompressed()
		for _, testnet := range []bool{false, true} {
			derived, err := DeriveAddress(pubBytes, testnet)
			if err != nil || derived != address {
				continue
			}
			if !verifyCompact(sig.RS, digest, pub) {
				return nil, core.ErrVerificationMismatch
			}
			return pubBytes, nil
		}
	}

	return nil, core.ErrNoRecoveryCandidate
}

// verifyCompact performs plain ECDSA verification of the r||s pair
// against a known public key, independent of the recovery path.
func verifyCompact(rs [64]byte, digest []byte, pub *secp256k1.PublicKey) bool {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(rs[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(rs[32:]); overflow {
		return false
	}
	return secpecdsa.NewSignature(&r, &s).Verify(digest, pub)
}
