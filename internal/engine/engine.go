// Package engine turns raw blocklist collections into a single,
// deduplicated, rule-minimal blocklist. The pipeline runs strictly in
// order: collect, optionally strip entries to their registrable roots,
// reconcile against the whitelist, re-merge the local blacklist,
// prune redundant subdomain rules, and produce a canonically ordered
// sequence for the output writer.
package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/miekg/dns"

	"github.com/blockgate/blockgate/internal/config"
	"github.com/blockgate/blockgate/internal/domain"
	"github.com/blockgate/blockgate/internal/logger"
)

var (
	// ErrModeConflict is returned when root stripping is combined with
	// hosts output. A hosts file blocks exact hostnames only, so a
	// stripped list would silently stop matching subdomains.
	ErrModeConflict = errors.New("strip_to_root cannot be used with hosts output mode")

	// ErrEmptyResult is returned when the reconciled blocklist contains
	// no domains at all.
	ErrEmptyResult = errors.New("the final blocklist is empty, nothing to write")
)

// Inputs are the three already-normalized domain sets the engine
// consumes. Any of them may be empty.
type Inputs struct {
	Remote domain.Set // union of all remote/cached sources
	Local  domain.Set // local blacklist overrides
	White  domain.Set // explicitly exempted domains
}

type Options struct {
	StripToRoot bool
	Mode        config.Mode
}

// Result is the reconciled blocklist plus non-fatal diagnostics.
type Result struct {
	Domains  []string
	Warnings []string
}

// Collect unions parsed domain collections into one canonical set.
// Duplicates collapse; empty collections contribute nothing.
func Collect(lists ...[]string) domain.Set {
	out := domain.NewSet()
	for _, list := range lists {
		for _, d := range list {
			out.Add(d)
		}
	}
	return out
}

// Reconcile runs the full pipeline over the input sets. It is a pure
// function of its inputs, the root extractor, and the options: no state
// survives between calls. Fatal conditions return a distinguishable
// error and no result.
func Reconcile(in Inputs, roots domain.RootExtractor, opts Options) (*Result, error) {
	if opts.StripToRoot && opts.Mode == config.ModeHosts {
		return nil, ErrModeConflict
	}

	var warnings []string
	if in.Remote.Len() == 0 {
		w := "0 domains were retrieved from remote sources, only the local blacklist will be used"
		logger.Warnf("%s", w)
		warnings = append(warnings, w)
	}

	orig := in.Remote.Clone()
	working := in.Remote.Clone()

	if opts.StripToRoot {
		working = stripToRoots(working, roots)
		logger.Infof("%d blacklisted domains left after stripping to registrable roots", working.Len())

		working.Subtract(in.White)
		logger.Infof("%d blacklisted domains left after subtracting the whitelist", working.Len())

		// A stripped root rule must not block a whitelisted domain's
		// whole family.
		for w := range in.White {
			working.Remove(roots.Root(w))
		}

		readmitSubdomains(working, orig, in.White, roots)
		logger.Infof("%d blacklisted domains after re-adding subdomains not covered by a root rule", working.Len())
	}

	// Exact whitelist matches are removed before the local blacklist is
	// merged back, so local entries always win.
	working.Subtract(in.White)

	for d := range in.Local {
		if in.White.Has(d) {
			w := fmt.Sprintf("%s is listed in both the local blacklist and the whitelist, the local blacklist takes precedence", d)
			logger.Warnf("%s", w)
			warnings = append(warnings, w)
		}
	}
	working.Union(in.Local)
	logger.Infof("%d blacklisted domains after re-adding the local blacklist", working.Len())

	pruneRedundant(working)
	logger.Infof("%d blacklisted domains after removing redundant rules", working.Len())

	if working.Len() == 0 {
		return nil, ErrEmptyResult
	}

	return &Result{
		Domains:  orderByTLD(working),
		Warnings: warnings,
	}, nil
}

// stripToRoots collapses every domain to its registrable root, merging
// all subdomains of a blocked root into one entry.
func stripToRoots(s domain.Set, roots domain.RootExtractor) domain.Set {
	out := make(domain.Set, s.Len())
	for d := range s {
		out.Add(roots.Root(d))
	}
	return out
}

// readmitSubdomains restores the precision lost by root stripping: an
// original hostname whose root rule was removed (and which is not
// itself whitelisted) is added back as a full-hostname entry. Decisions
// are made against a snapshot of the set taken before the pass, so the
// outcome does not depend on iteration order.
func readmitSubdomains(working, orig, white domain.Set, roots domain.RootExtractor) {
	snapshot := working.Clone()
	for d := range orig {
		if white.Has(d) {
			continue
		}
		if snapshot.Has(d) || snapshot.Has(roots.Root(d)) {
			continue
		}
		logger.Debugf("Re-adding %s, no broader rule covers it", d)
		working.Add(d)
	}
}

// pruneRedundant removes every entry covered by an ancestor entry
// along its label chain. The walk tests ancestors against an immutable
// snapshot while removals hit the live set, so redundancy at any
// nesting depth is caught in a single pass even when the immediate
// parent is absent.
func pruneRedundant(s domain.Set) {
	snapshot := s.Clone()
	for d := range snapshot {
		labels := dns.SplitDomainName(d)
		for i := 1; i < len(labels); i++ {
			ancestor := strings.Join(labels[i:], ".")
			if snapshot.Has(ancestor) {
				logger.Debugf("Removing %s, ancestor %s is already blocked", d, ancestor)
				s.Remove(d)
				break
			}
		}
	}
}

// orderByTLD sorts the final set by reversed label sequence, grouping
// domains by top-level and then second-level label. The order is a pure
// function of the set's contents.
func orderByTLD(s domain.Set) []string {
	reversed := make([][]string, 0, s.Len())
	for d := range s {
		labels := dns.SplitDomainName(d)
		slices.Reverse(labels)
		reversed = append(reversed, labels)
	}
	slices.SortFunc(reversed, func(a, b []string) int {
		return slices.Compare(a, b)
	})

	out := make([]string, len(reversed))
	for i, labels := range reversed {
		slices.Reverse(labels)
		out[i] = strings.Join(labels, ".")
	}
	return out
}
