// Package c32 implements the base-32 text encoding used by Stacks
// addresses. The alphabet omits the visually ambiguous characters
// I, L, O and U.
package c32

import (
	"errors"
	"fmt"
	"math/big"
)

// Alphabet is the 32-character c32 alphabet, in index order.
const Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ErrInvalidCharacter is returned by Decode when the input contains a
// character outside the c32 alphabet.
var ErrInvalidCharacter = errors.New("invalid c32 character")

var base = big.NewInt(32)

// index maps a byte to its alphabet position, or -1.
var index [256]int

func init() {
	for i := range index {
		index[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		index[Alphabet[i]] = i
	}
}

// Encode encodes data as c32 text. The byte string is treated as a
// single big-endian unsigned integer and the result is left-padded
// with the zero symbol to ceil(len(data)*8/5) characters.
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	num := new(big.Int).SetBytes(data)
	want := (len(data)*8 + 4) / 5

	buf := make([]byte, 0, want)
	rem := new(big.Int)
	for num.Sign() > 0 {
		num.DivMod(num, base, rem)
		buf = append(buf, Alphabet[rem.Int64()])
	}
	for len(buf) < want {
		buf = append(buf, Alphabet[0])
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Decode reverses Encode: characters are folded into a big-endian
// integer via their alphabet index, and the result is written out as
// ceil(len(encoded)*5/8) bytes.
func Decode(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}

	num := new(big.Int)
	digit := new(big.Int)
	for i := 0; i < len(encoded); i++ {
		idx := index[encoded[i]]
		if idx < 0 {
			return nil, fmt.Errorf("%w %q at position %d", ErrInvalidCharacter, encoded[i], i)
		}
		num.Mul(num, base)
		num.Add(num, digit.SetInt64(int64(idx)))
	}

	out := make([]byte, (len(encoded)*5+7)/8)
	num.FillBytes(out)
	return out, nil
}
