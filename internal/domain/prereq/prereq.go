// Package prereq parses and evaluates tile prerequisite expressions.
//
// Two source formats exist: a comma-separated AND list ("t1, t2"), and a
// JSON array of arrays ('[["t1","t2"],["t3"]]') meaning OR across groups
// with AND inside each group. Parsing never fails; malformed input
// degrades to the empty expression, which is always satisfied.
package prereq

import (
	"encoding/json"
	"strings"
)

// Kind discriminates the expression variants.
type Kind int

const (
	// KindEmpty has no constraints and is satisfied by any set.
	KindEmpty Kind = iota
	// KindAndList requires every referenced tile.
	KindAndList
	// KindAnyGroup requires at least one group to be fully satisfied.
	KindAnyGroup
)

// Expression is a parsed prerequisite gate.
type Expression struct {
	kind   Kind
	groups [][]string
}

// Empty returns the always-satisfied expression.
func Empty() Expression {
	return Expression{kind: KindEmpty}
}

// Parse turns a raw prerequisite field into an Expression.
//
// Strings starting with "[" are tried as JSON array-of-arrays; invalid
// JSON falls back to Empty rather than erroring, matching the
// ignore-invalid-JSON policy applied at every parse site. Anything else
// is split on commas into a single AND group.
func Parse(raw string) Expression {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Empty()
	}

	if strings.HasPrefix(raw, "[") {
		var groups [][]string
		if err := json.Unmarshal([]byte(raw), &groups); err != nil {
			return Empty()
		}
		cleaned := make([][]string, 0, len(groups))
		for _, g := range groups {
			ids := cleanIDs(g)
			if len(ids) > 0 {
				cleaned = append(cleaned, ids)
			}
		}
		if len(cleaned) == 0 {
			return Empty()
		}
		return Expression{kind: KindAnyGroup, groups: cleaned}
	}

	ids := cleanIDs(strings.Split(raw, ","))
	if len(ids) == 0 {
		return Empty()
	}
	return Expression{kind: KindAndList, groups: [][]string{ids}}
}

// Kind reports the expression variant.
func (e Expression) Kind() Kind {
	return e.kind
}

// SatisfiedBy evaluates the expression over the set of satisfied tile ids.
func (e Expression) SatisfiedBy(satisfied map[string]bool) bool {
	if e.kind == KindEmpty {
		return true
	}
	for _, group := range e.groups {
		if allIn(group, satisfied) {
			return true
		}
	}
	return false
}

// References returns every tile id the expression mentions, in source order
// with duplicates removed.
func (e Expression) References() []string {
	var out []string
	seen := make(map[string]bool)
	for _, group := range e.groups {
		for _, id := range group {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func allIn(ids []string, satisfied map[string]bool) bool {
	for _, id := range ids {
		if !satisfied[id] {
			return false
		}
	}
	return true
}

func cleanIDs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
