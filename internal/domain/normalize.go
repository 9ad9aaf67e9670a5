package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"github.com/blockgate/blockgate/internal/logger"
)

// Normalize canonicalizes a raw domain string into a lowercase,
// ASCII-compatible token: surrounding whitespace and empty labels are
// dropped, internationalized names are converted to punycode, and
// anything that is not a well-formed DNS name is rejected.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty domain")
	}

	// Drop empty labels: ".ads..example.com." -> "ads.example.com".
	labels := make([]string, 0, strings.Count(raw, ".")+1)
	for _, label := range strings.Split(raw, ".") {
		if label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("no labels in %q", raw)
	}
	name := strings.Join(labels, ".")

	if !isASCII(name) {
		ascii, err := idna.Lookup.ToASCII(name)
		if err != nil {
			return "", fmt.Errorf("idna: %v", err)
		}
		name = ascii
	}
	name = strings.ToLower(name)

	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("not a valid domain name: %q", name)
	}
	return name, nil
}

// NormalizeSet canonicalizes every member of raw, silently dropping
// entries that fail validation.
func NormalizeSet(raw Set) Set {
	out := make(Set, len(raw))
	for d := range raw {
		norm, err := Normalize(d)
		if err != nil {
			logger.Debugf("Dropping invalid domain %q: %v", d, err)
			continue
		}
		out.Add(norm)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
