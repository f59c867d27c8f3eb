package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a 20-byte account identifier in its canonical lowercase 0x form.
type Address string

const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

func ParseAddress(s string) (Address, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if len(v) != 42 || !strings.HasPrefix(v, "0x") {
		return "", fmt.Errorf("%w: malformed address %q", ErrInvalidArgument, s)
	}
	if _, err := hex.DecodeString(v[2:]); err != nil {
		return "", fmt.Errorf("%w: malformed address %q", ErrInvalidArgument, s)
	}
	return Address(v), nil
}

// MustAddress panics on malformed input. Intended for constants and tests.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}
