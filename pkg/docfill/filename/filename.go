// Package filename generates unique, length-bounded file names.
package filename

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	// MaxLength is the maximum number of characters of a generated name
	MaxLength = 255
	// MaxExtensionLength is the longest extension, dot excluded, that is kept
	// when a name has to be shortened
	MaxExtensionLength = 5
)

// Generator hands out names that were not handed out or reserved before.
// Names are compared case-insensitively. A Generator is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	taken map[string]bool
}

func NewGenerator() *Generator {
	return &Generator{taken: make(map[string]bool)}
}

// Reserve marks name as taken
func (g *Generator) Reserve(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.taken[strings.ToLower(name)] = true
}

// Next returns name, or name with a " (n)" disambiguator before the extension
// if it is taken. Names longer than MaxLength are shortened, keeping the
// extension.
func (g *Generator) Next(name string) (string, error) {
	name = sanitize(name)
	if name == "" {
		return "", fmt.Errorf("file name must not be empty")
	}
	stem, ext := split(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	for n := 0; ; n++ {
		suffix := ""
		if n > 0 {
			suffix = fmt.Sprintf(" (%d)", n)
		}
		candidate := fit(stem, suffix+ext)
		if candidate == "" {
			return "", fmt.Errorf("file name %q cannot be shortened to %d characters", name, MaxLength)
		}
		key := strings.ToLower(candidate)
		if !g.taken[key] {
			g.taken[key] = true
			return candidate, nil
		}
	}
}

// split separates a short extension from name. Longer extensions are treated
// as part of the stem.
func split(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	if utf8.RuneCountInString(name[i+1:]) > MaxExtensionLength {
		return name, ""
	}
	return name[:i], name[i:]
}

// fit shortens stem so that stem+tail is at most MaxLength characters
func fit(stem, tail string) string {
	room := MaxLength - utf8.RuneCountInString(tail)
	if room <= 0 {
		return ""
	}
	runes := []rune(stem)
	if len(runes) > room {
		runes = runes[:room]
	}
	return strings.TrimRight(string(runes), " .") + tail
}

// sanitize replaces path separators and control characters
func sanitize(name string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20:
			return -1
		}
		return r
	}, name))
}
