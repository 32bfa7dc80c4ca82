// Package sites parses newline-delimited site lists and resolves path
// segments back to canonical site names.
package sites

import (
	"fmt"
	"strings"

	"github.com/mtlprog/ampserve/internal/domain"
)

// Picker returns a pseudo-random int in [0, n). *math/rand/v2.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// List is an ordered set of site names with a normalized lookup index.
type List struct {
	names []string
	index map[string]string
	base  string
}

// Parse builds a List from raw newline-delimited text. Lines are trimmed,
// empty lines are skipped and duplicate names keep their first position.
// base is the origin canonical URLs are built from, e.g. "https://example.org/".
func Parse(raw, base string) *List {
	l := &List{
		index: make(map[string]string),
		base:  base,
	}

	seen := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		l.names = append(l.names, name)

		lower := strings.ToLower(name)
		l.register(strings.ReplaceAll(lower, " ", "-"), name)
		l.register(strings.ReplaceAll(lower, " ", ""), name)
	}

	return l
}

// register adds key unless an earlier name already claimed it.
func (l *List) register(key, name string) {
	if _, taken := l.index[key]; taken {
		return
	}
	l.index[key] = name
}

// Names returns the canonical names in list order.
func (l *List) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of distinct names.
func (l *List) Len() int {
	return len(l.names)
}

// Lookup maps a path segment to a canonical name. The segment is lowercased
// and tried as-is, then without hyphens, then with hyphens as spaces.
func (l *List) Lookup(segment string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(segment))
	if key == "" {
		return "", false
	}

	candidates := []string{
		key,
		strings.ReplaceAll(key, "-", ""),
		strings.ReplaceAll(key, "-", " "),
	}
	for _, c := range candidates {
		if name, ok := l.index[c]; ok {
			return name, true
		}
	}
	return "", false
}

// Resolve picks the site for a request. An empty segment selects a name
// uniformly at random using picker; a non-empty segment that matches nothing
// returns domain.ErrSiteNotFound so the caller can hand the request on.
func (l *List) Resolve(segment string, picker Picker) (domain.Site, error) {
	if strings.TrimSpace(segment) == "" {
		if len(l.names) == 0 {
			return domain.Site{}, domain.ErrEmptySiteList
		}
		return l.site(l.names[picker.IntN(len(l.names))]), nil
	}

	name, ok := l.Lookup(segment)
	if !ok {
		return domain.Site{}, fmt.Errorf("%w: %q", domain.ErrSiteNotFound, segment)
	}
	return l.site(name), nil
}

func (l *List) site(name string) domain.Site {
	slug := Slug(name)
	return domain.Site{
		Name:         name,
		Slug:         slug,
		CanonicalURL: CanonicalURL(l.base, slug),
	}
}

// Slug replaces spaces in a site name with hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(name, " ", "-")
}

// CanonicalURL joins base and slug with exactly one slash between them.
func CanonicalURL(base, slug string) string {
	return strings.TrimRight(base, "/") + "/" + slug
}

// FirstSegment returns the first non-empty segment of a URL path.
func FirstSegment(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
