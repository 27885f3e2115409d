// Package docpath resolves dot-separated paths against generic JSON-like documents
// (trees of map[string]any, []any and scalars). A `*` segment matches every element
// of an array or every key of an object at that position.
package docpath

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const Wildcard = "*"

// Path is a parsed dot-path, e.g. `user.emails.*` or `company.name`.
type Path struct {
	raw      string
	segments []string
}

// Parse splits raw dot-path into segments. Empty paths and empty segments
// (leading, trailing or doubled dots) are rejected.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("path must not be empty")
	}
	segments := strings.Split(raw, ".")
	for i, s := range segments {
		if s == "" {
			return Path{}, fmt.Errorf("path %q has empty segment at position %d", raw, i)
		}
	}
	return Path{raw: raw, segments: segments}, nil
}

func (p Path) String() string {
	return p.raw
}

// HasWildcard reports whether any segment of the path is `*`.
func (p Path) HasWildcard() bool {
	for _, s := range p.segments {
		if s == Wildcard {
			return true
		}
	}
	return false
}

// Resolve returns all values the path matches in doc, in document order.
// Object keys matched by `*` are visited in sorted order so results are deterministic.
func (p Path) Resolve(doc any) []any {
	return resolve(doc, p.segments)
}

// First returns the first match of the path in doc.
func (p Path) First(doc any) (any, bool) {
	matches := p.Resolve(doc)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// Flatten resolves the path and collapses the result to a single value keyed by the
// literal path string: wildcard paths yield the array of all matches, plain paths
// yield the single matched value. The boolean is false when nothing matched.
func (p Path) Flatten(doc any) (any, bool) {
	matches := p.Resolve(doc)
	if len(matches) == 0 {
		return nil, false
	}
	if p.HasWildcard() {
		return matches, true
	}
	return matches[0], true
}

func resolve(node any, segments []string) []any {
	if len(segments) == 0 {
		return []any{node}
	}
	seg, rest := segments[0], segments[1:]
	switch v := node.(type) {
	case map[string]any:
		if seg == Wildcard {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var matches []any
			for _, k := range keys {
				matches = append(matches, resolve(v[k], rest)...)
			}
			return matches
		}
		child, ok := v[seg]
		if !ok {
			return nil
		}
		return resolve(child, rest)
	case []any:
		if seg == Wildcard {
			var matches []any
			for _, item := range v {
				matches = append(matches, resolve(item, rest)...)
			}
			return matches
		}
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil
		}
		return resolve(v[idx], rest)
	default:
		// scalar in the middle of the path
		return nil
	}
}
