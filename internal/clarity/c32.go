package clarity

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// c32check address encoding: 'S' + version character + c32(payload+checksum),
// checksum = first 4 bytes of sha256(sha256(version || payload)).

const (
	c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	hash160Len  = 20
	checksumLen = 4
)

var (
	ErrBadAddress  = errors.New("malformed principal address")
	ErrBadChecksum = errors.New("principal address checksum mismatch")
)

// EncodeAddress renders a version byte and hash160 as a Stacks address.
func EncodeAddress(version byte, hash [hash160Len]byte) string {
	payload := make([]byte, 0, hash160Len+checksumLen)
	payload = append(payload, hash[:]...)
	payload = append(payload, checksum(version, hash[:])...)

	return "S" + string(c32Alphabet[version&0x1f]) + c32Encode(payload)
}

// DecodeAddress parses a Stacks address back into its version byte and
// hash160, verifying the checksum.
func DecodeAddress(addr string) (byte, [hash160Len]byte, error) {
	var hash [hash160Len]byte

	normalized := normalizeC32(addr)
	if len(normalized) < 3 || normalized[0] != 'S' {
		return 0, hash, fmt.Errorf("%w: %q", ErrBadAddress, addr)
	}

	version := strings.IndexByte(c32Alphabet, normalized[1])
	if version < 0 {
		return 0, hash, fmt.Errorf("%w: bad version character in %q", ErrBadAddress, addr)
	}

	payload, err := c32Decode(normalized[2:], hash160Len+checksumLen)
	if err != nil {
		return 0, hash, fmt.Errorf("%w: %q", err, addr)
	}

	copy(hash[:], payload[:hash160Len])
	want := payload[hash160Len:]
	got := checksum(byte(version), payload[:hash160Len])
	for i := range got {
		if got[i] != want[i] {
			return 0, hash, fmt.Errorf("%w: %q", ErrBadChecksum, addr)
		}
	}

	return byte(version), hash, nil
}

// ParsePrincipal parses a standard or contract principal string.
func ParsePrincipal(s string) (Principal, error) {
	addr, contract, hasContract := strings.Cut(s, ".")

	version, hash, err := DecodeAddress(addr)
	if err != nil {
		return Principal{}, err
	}

	p := Principal{Version: version, Hash: hash}
	if hasContract {
		if contract == "" {
			return Principal{}, fmt.Errorf("%w: empty contract name in %q", ErrBadAddress, s)
		}
		p.Contract = contract
	}

	return p, nil
}

func checksum(version byte, payload []byte) []byte {
	first := sha256.Sum256(append([]byte{version}, payload...))
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// c32Encode writes one '0' digit per leading zero byte, then the remainder as
// base-32 digits, matching the reference c32check layout.
func c32Encode(payload []byte) string {
	zeros := 0
	for zeros < len(payload) && payload[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(payload)

	var digits []byte
	base := big.NewInt(int64(len(c32Alphabet)))
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		digits = append(digits, c32Alphabet[mod.Int64()])
	}

	var sb strings.Builder
	for i := 0; i < zeros; i++ {
		sb.WriteByte('0')
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}

	return sb.String()
}

func c32Decode(s string, size int) ([]byte, error) {
	n := new(big.Int)
	base := big.NewInt(int64(len(c32Alphabet)))
	for i := 0; i < len(s); i++ {
		digit := strings.IndexByte(c32Alphabet, s[i])
		if digit < 0 {
			return nil, fmt.Errorf("%w: invalid character %q", ErrBadAddress, s[i])
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(digit)))
	}

	raw := n.Bytes()
	if len(raw) > size {
		return nil, ErrBadAddress
	}

	payload := make([]byte, size)
	copy(payload[size-len(raw):], raw)

	return payload, nil
}

// normalizeC32 uppercases and maps the visually ambiguous characters the
// encoding tolerates on input.
func normalizeC32(s string) string {
	up := strings.ToUpper(s)
	up = strings.ReplaceAll(up, "O", "0")
	up = strings.ReplaceAll(up, "L", "1")
	up = strings.ReplaceAll(up, "I", "1")
	return up
}
