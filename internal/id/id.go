// Package id issues prefixed, K-sortable receipt identifiers ("dist_01h...").
package id

import (
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

type Prefix string

const (
	PrefixDistribution    Prefix = "dist"
	PrefixNftDistribution Prefix = "nftd"
)

// New generates an identifier with the given prefix.
// It panics on an invalid prefix, which is a programming error.
func New(prefix Prefix) string {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// Parse validates s and checks it carries the expected prefix.
func Parse(s string, expected Prefix) error {
	if s == "" {
		return fmt.Errorf("id: parse %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return fmt.Errorf("id: parse %q: %w", s, err)
	}
	if Prefix(tid.Prefix()) != expected {
		return fmt.Errorf("id: expected prefix %q, got %q", expected, tid.Prefix())
	}
	return nil
}

func HasPrefix(s string, prefix Prefix) bool {
	return strings.HasPrefix(s, string(prefix)+"_")
}
