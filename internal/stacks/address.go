package stacks

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/layer-3/stacksauth/core"
	"github.com/layer-3/stacksauth/internal/c32"
)

// Address version bytes and network prefixes.
const (
	VersionMainnet byte = 22
	VersionTestnet byte = 26

	PrefixMainnet = "SP"
	PrefixTestnet = "ST"
)

const (
	hash160Length  = 20
	checksumLength = 4
	// version byte, hash160 and checksum
	payloadLength = 1 + hash160Length + checksumLength
)

// DeriveAddress turns a public key into its Stacks address text:
// prefix || c32(version || hash160(pubkey) || checksum). The public
// key may be compressed (33 bytes) or uncompressed (65 bytes). The
// output is deterministic and compared elsewhere with exact string
// equality.
func DeriveAddress(publicKey []byte, testnet bool) (string, error) {
	if len(publicKey) != 33 && len(publicKey) != 65 {
		return "", fmt.Errorf("public key must be 33 or 65 bytes, got %d", len(publicKey))
	}

	version, prefix := VersionMainnet, PrefixMainnet
	if testnet {
		version, prefix = VersionTestnet, PrefixTestnet
	}

	payload := make([]byte, 0, payloadLength)
	payload = append(payload, version)
	payload = append(payload, Hash160(publicKey)...)
	payload = append(payload, checksum(payload)...)

	return prefix + c32.Encode(payload), nil
}

// ValidateAddress checks the network prefix and c32 alphabet shape of
// an address. It does not verify the checksum; see DecodeAddress.
func ValidateAddress(address string) error {
	if !strings.HasPrefix(address, PrefixMainnet) && !strings.HasPrefix(address, PrefixTestnet) {
		return fmt.Errorf("%w: missing SP/ST network prefix", core.ErrInvalidAddress)
	}
	body := address[2:]
	if body == "" {
		return fmt.Errorf("%w: empty payload", core.ErrInvalidAddress)
	}
	for i := 0; i < len(body); i++ {
		if !strings.ContainsRune(c32.Alphabet, rune(body[i])) {
			return fmt.Errorf("%w: character %q outside the c32 alphabet", core.ErrInvalidAddress, body[i])
		}
	}
	return nil
}

// DecodeAddress decodes an address and verifies its checksum against a
// locally recomputed double-SHA256 over version || hash160. It returns
// the version byte and the 20-byte hash160 payload.
func DecodeAddress(address string) (byte, []byte, error) {
	if err := ValidateAddress(address); err != nil {
		return 0, nil, err
	}

	raw, err := c32.Decode(address[2:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", core.ErrInvalidAddress, err)
	}
	if len(raw) != payloadLength {
		return 0, nil, fmt.Errorf("%w: payload is %d bytes, want %d", core.ErrInvalidAddress, len(raw), payloadLength)
	}

	versioned := raw[:1+hash160Length]
	if !bytes.Equal(raw[1+hash160Length:], checksum(versioned)) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", core.ErrInvalidAddress)
	}

	return raw[0], raw[1 : 1+hash160Length], nil
}
