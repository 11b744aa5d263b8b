// Package clarity models the typed values a Stacks contract returns from
// read-only calls and accepts as function arguments, together with their
// binary wire representation (SIP-005) and the c32check address encoding
// used for principals.
package clarity

import (
	"fmt"
	"math/big"
)

// Value is one decoded on-chain value. Concrete types are UInt, Int, Bool,
// Principal, Buffer, StringASCII, Optional, List, Tuple and Response.
type Value interface {
	clarityValue()
}

// UInt is an unsigned 128-bit integer. It is carried as a big.Int because
// contract values routinely exceed the float64-safe range and must never be
// silently truncated.
type UInt struct {
	N *big.Int
}

func NewUInt(n uint64) UInt {
	return UInt{N: new(big.Int).SetUint64(n)}
}

func (that UInt) clarityValue() {}

// Uint64 converts the value to a native uint64, failing when it does not fit.
func (that UInt) Uint64() (uint64, error) {
	if that.N == nil || that.N.Sign() < 0 || !that.N.IsUint64() {
		return 0, fmt.Errorf("%w: %v does not fit in uint64", ErrBadValue, that.N)
	}
	return that.N.Uint64(), nil
}

// Int is a signed 128-bit integer.
type Int struct {
	N *big.Int
}

func (that Int) clarityValue() {}

type Bool bool

func (that Bool) clarityValue() {}

// Principal is a standard or contract principal. Contract is empty for
// standard principals.
type Principal struct {
	Version  byte
	Hash     [hash160Len]byte
	Contract string
}

func (that Principal) clarityValue() {}

// String renders the principal in its c32check address form.
func (that Principal) String() string {
	addr := EncodeAddress(that.Version, that.Hash)
	if that.Contract != "" {
		return addr + "." + that.Contract
	}
	return addr
}

type Buffer []byte

func (that Buffer) clarityValue() {}

type StringASCII string

func (that StringASCII) clarityValue() {}

// Optional is a contract-level present-or-absent wrapper. A nil Some means
// none.
type Optional struct {
	Some Value
}

func None() Optional {
	return Optional{}
}

func SomeOf(v Value) Optional {
	return Optional{Some: v}
}

func (that Optional) clarityValue() {}

func (that Optional) IsNone() bool {
	return that.Some == nil
}

type List struct {
	Items []Value
}

func (that List) clarityValue() {}

// Tuple is a named-field record. Field order is not semantically relevant;
// serialization orders keys lexicographically per the wire format.
type Tuple struct {
	Fields map[string]Value
}

func (that Tuple) clarityValue() {}

// Field returns the named field, or nil when it is absent.
func (that Tuple) Field(name string) Value {
	if that.Fields == nil {
		return nil
	}
	return that.Fields[name]
}

// Response is a contract (ok ...) or (err ...) result.
type Response struct {
	Ok    bool
	Value Value
}

func (that Response) clarityValue() {}
