// Package render substitutes the brand placeholder across a page template.
//
// A template may spell the placeholder in two forms: the bare token
// ($BRANDS), which is replaced with the upper-cased brand, and the
// lowercase-wrapped token (strtolower($BRANDS)), which is replaced with the
// lower-cased brand. Either form may sit inside a <?php echo ...; ?> envelope,
// in which case the whole envelope is replaced. Replacement is plain text and
// does not depend on the surrounding HTML, attribute, JSON or URL context.
package render

import (
	"regexp"
	"strings"
)

const (
	// DefaultToken is the placeholder used by the stock templates.
	DefaultToken = "$BRANDS"

	// CanonicalToken is replaced with the page's canonical URL by RenderPage.
	CanonicalToken = "$CANONICAL_URL"
)

// PatternSet names the placeholder token an Engine looks for.
type PatternSet struct {
	Token string
}

// DefaultPatterns returns the pattern set for DefaultToken.
func DefaultPatterns() PatternSet {
	return PatternSet{Token: DefaultToken}
}

// Engine replaces placeholder occurrences in templates. It is safe for concurrent use.
type Engine struct {
	brand *regexp.Regexp // wrapped | bare
	page  *regexp.Regexp // wrapped | bare | canonical
}

// New compiles the rules for the given pattern set.
// An empty token falls back to DefaultToken.
func New(patterns PatternSet) *Engine {
	token := strings.TrimSpace(patterns.Token)
	if token == "" {
		token = DefaultToken
	}
	quoted := regexp.QuoteMeta(token)

	// <?php echo X; ?> with flexible whitespace and an optional semicolon.
	envelope := func(inner string) string {
		return `(?:<\?php\s+echo\s+` + inner + `\s*;?\s*\?>|` + inner + `)`
	}
	wrapped := "(" + envelope(`strtolower\(\s*`+quoted+`\s*\)`) + ")"
	bare := "(" + envelope(quoted) + ")"
	canonical := "(" + regexp.QuoteMeta(CanonicalToken) + ")"

	return &Engine{
		brand: regexp.MustCompile(wrapped + "|" + bare),
		page:  regexp.MustCompile(wrapped + "|" + bare + "|" + canonical),
	}
}

// Render returns the template with every wrapped occurrence replaced by the
// lower-cased brand and every bare occurrence by the upper-cased brand.
func (e *Engine) Render(template, brand string) string {
	return substitute(e.brand, template, strings.ToLower(brand), strings.ToUpper(brand))
}

// RenderPage is Render that also replaces CanonicalToken with canonicalURL.
// All tokens are replaced in a single pass, so substituted values are never
// scanned again.
func (e *Engine) RenderPage(template, brand, canonicalURL string) string {
	return substitute(e.page, template, strings.ToLower(brand), strings.ToUpper(brand), canonicalURL)
}

// substitute writes values[i] in place of each match of capture group i+1.
// Alternation is leftmost-first, so the wrapped form wins over the bare
// token it contains.
func substitute(re *regexp.Regexp, template string, values ...string) string {
	matches := re.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0
	for _, m := range matches {
		b.WriteString(template[last:m[0]])
		for g := range values {
			if m[2*(g+1)] >= 0 {
				b.WriteString(values[g])
				break
			}
		}
		last = m[1]
	}
	b.WriteString(template[last:])
	return b.String()
}
