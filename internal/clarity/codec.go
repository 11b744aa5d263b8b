package clarity

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
)

// Wire type prefixes per SIP-005.
const (
	prefixInt               = 0x00
	prefixUInt              = 0x01
	prefixBuffer            = 0x02
	prefixBoolTrue          = 0x03
	prefixBoolFalse         = 0x04
	prefixStandardPrincipal = 0x05
	prefixContractPrincipal = 0x06
	prefixResponseOk        = 0x07
	prefixResponseErr       = 0x08
	prefixOptionalNone      = 0x09
	prefixOptionalSome      = 0x0a
	prefixList              = 0x0b
	prefixTuple             = 0x0c
	prefixStringASCII       = 0x0d
	prefixStringUTF8        = 0x0e
)

const intWidth = 16 // 128-bit integers on the wire

var (
	ErrBadValue      = errors.New("malformed clarity value")
	ErrTruncated     = errors.New("truncated clarity value")
	ErrUnknownPrefix = errors.New("unknown clarity type prefix")
)

// Deserialize decodes one serialized clarity value and requires the input to
// be fully consumed.
func Deserialize(raw []byte) (Value, error) {
	r := bytes.NewReader(raw)

	v, err := readValue(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrBadValue, r.Len())
	}

	return v, nil
}

func readValue(r *bytes.Reader) (Value, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return nil, ErrTruncated
	}

	switch prefix {
	case prefixInt:
		n, err := readInt128(r, true)
		if err != nil {
			return nil, err
		}
		return Int{N: n}, nil
	case prefixUInt:
		n, err := readInt128(r, false)
		if err != nil {
			return nil, err
		}
		return UInt{N: n}, nil
	case prefixBuffer:
		raw, err := readSized(r)
		if err != nil {
			return nil, err
		}
		return Buffer(raw), nil
	case prefixBoolTrue:
		return Bool(true), nil
	case prefixBoolFalse:
		return Bool(false), nil
	case prefixStandardPrincipal:
		return readPrincipal(r, false)
	case prefixContractPrincipal:
		return readPrincipal(r, true)
	case prefixResponseOk, prefixResponseErr:
		inner, err := readValue(r)
		if err != nil {
			return nil, err
		}
		return Response{Ok: prefix == prefixResponseOk, Value: inner}, nil
	case prefixOptionalNone:
		return None(), nil
	case prefixOptionalSome:
		inner, err := readValue(r)
		if err != nil {
			return nil, err
		}
		return SomeOf(inner), nil
	case prefixList:
		count, err := readLen(r)
		if err != nil {
			return nil, err
		}
		items := make([]Value, 0, count)
		for i := uint32(0); i < count; i++ {
			item, err := readValue(r)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return List{Items: items}, nil
	case prefixTuple:
		count, err := readLen(r)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]Value, count)
		for i := uint32(0); i < count; i++ {
			name, err := readName(r)
			if err != nil {
				return nil, err
			}
			field, err := readValue(r)
			if err != nil {
				return nil, err
			}
			fields[name] = field
		}
		return Tuple{Fields: fields}, nil
	case prefixStringASCII, prefixStringUTF8:
		raw, err := readSized(r)
		if err != nil {
			return nil, err
		}
		return StringASCII(raw), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownPrefix, prefix)
	}
}

func readInt128(r *bytes.Reader, signed bool) (*big.Int, error) {
	var buf [intWidth]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrTruncated
	}

	n := new(big.Int).SetBytes(buf[:])
	if signed && buf[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), intWidth*8))
	}

	return n, nil
}

func readLen(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, ErrTruncated
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readSized(r *bytes.Reader) ([]byte, error) {
	size, err := readLen(r)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, ErrTruncated
	}

	return raw, nil
}

// readName reads a length-prefixed clarity name (1-byte length).
func readName(r *bytes.Reader) (string, error) {
	size, err := r.ReadByte()
	if err != nil {
		return "", ErrTruncated
	}

	raw := make([]byte, size)
	if _, err = io.ReadFull(r, raw); err != nil {
		return "", ErrTruncated
	}

	return string(raw), nil
}

func readPrincipal(r *bytes.Reader, contract bool) (Value, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, ErrTruncated
	}

	var hash [hash160Len]byte
	if _, err = io.ReadFull(r, hash[:]); err != nil {
		return nil, ErrTruncated
	}

	p := Principal{Version: version, Hash: hash}
	if contract {
		name, err := readName(r)
		if err != nil {
			return nil, err
		}
		p.Contract = name
	}

	return p, nil
}

// Serialize encodes a value into its wire form. It covers every type this
// client sends or re-encodes; unknown dynamic content is a programming error.
func Serialize(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case UInt:
		if val.N == nil || val.N.Sign() < 0 || val.N.BitLen() > intWidth*8 {
			return fmt.Errorf("%w: uint out of range", ErrBadValue)
		}
		buf.WriteByte(prefixUInt)
		writeInt128(buf, val.N)
	case Int:
		if val.N == nil {
			return fmt.Errorf("%w: nil int", ErrBadValue)
		}
		n := val.N
		if n.Sign() < 0 {
			n = new(big.Int).Add(n, new(big.Int).Lsh(big.NewInt(1), intWidth*8))
		}
		buf.WriteByte(prefixInt)
		writeInt128(buf, n)
	case Bool:
		if val {
			buf.WriteByte(prefixBoolTrue)
		} else {
			buf.WriteByte(prefixBoolFalse)
		}
	case Principal:
		if val.Contract == "" {
			buf.WriteByte(prefixStandardPrincipal)
		} else {
			buf.WriteByte(prefixContractPrincipal)
		}
		buf.WriteByte(val.Version)
		buf.Write(val.Hash[:])
		if val.Contract != "" {
			buf.WriteByte(byte(len(val.Contract)))
			buf.WriteString(val.Contract)
		}
	case Buffer:
		buf.WriteByte(prefixBuffer)
		writeLen(buf, uint32(len(val)))
		buf.Write(val)
	case StringASCII:
		buf.WriteByte(prefixStringASCII)
		writeLen(buf, uint32(len(val)))
		buf.WriteString(string(val))
	case Optional:
		if val.IsNone() {
			buf.WriteByte(prefixOptionalNone)
			return nil
		}
		buf.WriteByte(prefixOptionalSome)
		return writeValue(buf, val.Some)
	case Response:
		if val.Ok {
			buf.WriteByte(prefixResponseOk)
		} else {
			buf.WriteByte(prefixResponseErr)
		}
		return writeValue(buf, val.Value)
	case List:
		buf.WriteByte(prefixList)
		writeLen(buf, uint32(len(val.Items)))
		for _, item := range val.Items {
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
	case Tuple:
		buf.WriteByte(prefixTuple)
		writeLen(buf, uint32(len(val.Fields)))
		names := make([]string, 0, len(val.Fields))
		for name := range val.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			buf.WriteByte(byte(len(name)))
			buf.WriteString(name)
			if err := writeValue(buf, val.Fields[name]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrBadValue, v)
	}

	return nil
}

func writeInt128(buf *bytes.Buffer, n *big.Int) {
	raw := n.Bytes()
	pad := intWidth - len(raw)
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	buf.Write(raw)
}

func writeLen(buf *bytes.Buffer, n uint32) {
	var raw [4]byte
	binary.BigEndian.PutUint32(raw[:], n)
	buf.Write(raw[:])
}
