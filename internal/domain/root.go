package domain

import (
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// RootExtractor reports the registrable root of a domain, i.e. its
// public second-level form ("a.b.example.co.uk" -> "example.co.uk").
// Implementations must be pure and deterministic.
type RootExtractor interface {
	Root(domain string) string
}

// RootFunc adapts a plain function to the RootExtractor interface.
type RootFunc func(string) string

func (f RootFunc) Root(d string) string {
	return f(d)
}

// PSL extracts registrable roots using the embedded public suffix list.
type PSL struct{}

func NewPSL() *PSL {
	return &PSL{}
}

func (p *PSL) Root(d string) string {
	root, err := publicsuffix.Domain(d)
	if err != nil {
		// Names without a known public suffix (single labels, private
		// TLDs) are their own root.
		return d
	}
	return root
}
