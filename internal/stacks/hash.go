// Package stacks implements the cryptographic core of Stacks wallet
// authentication: message digests, address derivation, wallet
// signature parsing and public-key recovery over secp256k1.
package stacks

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// MessageHash returns the SHA-256 digest of the raw UTF-8 bytes of the
// signed message. No domain-separation prefix is applied: the message
// text itself carries the app name and nonce, so the hash sees exactly
// the bytes the wallet signed.
func MessageHash(message string) []byte {
	sum := sha256.Sum256([]byte(message))
	return sum[:]
}

// Hash160 computes RIPEMD160(SHA256(data)), the 20-byte digest at the
// core of address derivation.
func Hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// checksum returns the first four bytes of SHA256(SHA256(data)).
func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:4]
}
