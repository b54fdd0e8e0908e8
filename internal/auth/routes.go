package auth

import (
	"fmt"
	"regexp"
	"strings"
)

var staticFile = regexp.MustCompile(`\.\w+$`)

// RouteMatcher decides which paths the gate inspects and which of those
// are reachable without signing in.
//
// Patterns use path-to-regexp syntax: literal segments, ":name" for one
// segment, ":name*" / ":name+" / ":name?" for zero-or-more, one-or-more and
// optional segments, and raw regexp groups such as "(.*)".
type RouteMatcher struct {
	public []*regexp.Regexp
}

func NewRouteMatcher(patterns []string) (*RouteMatcher, error) {
	m := &RouteMatcher{}
	for _, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("invalid public route %q: %w", p, err)
		}
		m.public = append(m.public, re)
	}
	return m, nil
}

// ShouldGate reports whether the gate runs for path at all. Static assets
// and framework internals pass straight through; /api and /trpc never do.
func (m *RouteMatcher) ShouldGate(path string) bool {
	if hasPrefixSegment(path, "/api") || hasPrefixSegment(path, "/trpc") {
		return true
	}
	if hasPrefixSegment(path, "/_next") {
		return false
	}
	return !staticFile.MatchString(path)
}

// IsPublic reports whether path matches one of the public patterns
func (m *RouteMatcher) IsPublic(path string) bool {
	for _, re := range m.public {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func hasPrefixSegment(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	pattern = strings.TrimPrefix(strings.TrimSpace(pattern), ".")
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}

	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(pattern); {
		switch {
		case pattern[i] == '/' && i+1 < len(pattern) && pattern[i+1] == ':':
			j := i + 2
			for j < len(pattern) && isNameChar(pattern[j]) {
				j++
			}
			if j == i+2 {
				return nil, fmt.Errorf("empty parameter name at offset %d", i+1)
			}
			modifier := byte(0)
			if j < len(pattern) && strings.IndexByte("*+?", pattern[j]) >= 0 {
				modifier = pattern[j]
				j++
			}
			switch modifier {
			case '*':
				b.WriteString(`(?:/[^/]+)*`)
			case '+':
				b.WriteString(`(?:/[^/]+)+`)
			case '?':
				b.WriteString(`(?:/[^/]+)?`)
			default:
				b.WriteString(`/[^/]+`)
			}
			i = j

		case pattern[i] == '(':
			depth, j := 0, i
			for ; j < len(pattern); j++ {
				if pattern[j] == '(' {
					depth++
				} else if pattern[j] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			if j == len(pattern) {
				return nil, fmt.Errorf("unbalanced group at offset %d", i)
			}
			b.WriteString(pattern[i : j+1])
			i = j + 1

		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}

	if !strings.HasSuffix(pattern, "/") {
		b.WriteString("/?")
	}
	b.WriteString("$")

	return regexp.Compile(b.String())
}

func isNameChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
