package docfill

import (
	"fmt"
	"strings"
)

// Instruction adjusts a single generation call. Implemented by ReplaceStrategy,
// Delimiters, *HeaderFooterInstruction and *DocumentInterceptor.
type Instruction interface {
	applyTo(s *settings)
}

// settings is the effective configuration of one generation call
type settings struct {
	strategy     ReplaceStrategy
	delims       Delimiters
	headerFooter []*HeaderFooterInstruction
	interceptors []*DocumentInterceptor
}

func newSettings(config *Config, instructions []Instruction) *settings {
	s := &settings{
		strategy: config.Strategy,
		delims:   config.Delimiters.orDefault(),
	}
	for _, in := range instructions {
		if in != nil {
			in.applyTo(s)
		}
	}
	return s
}

func (s *settings) validate() error {
	return s.delims.validate()
}

// ReplaceStrategy decides what happens to a placeholder no scope provides a
// value for
type ReplaceStrategy int

const (
	// ReplaceAll fails the generation call
	ReplaceAll ReplaceStrategy = iota
	// IgnoreMissing leaves the placeholder in the output as written
	IgnoreMissing
	// RemoveMissing replaces the placeholder with an empty string
	RemoveMissing
)

func (rs ReplaceStrategy) String() string {
	switch rs {
	case ReplaceAll:
		return "all"
	case IgnoreMissing:
		return "ignore"
	case RemoveMissing:
		return "remove"
	default:
		return fmt.Sprintf("ReplaceStrategy(%d)", int(rs))
	}
}

// ParseReplaceStrategy parses "all", "ignore" or "remove"
func ParseReplaceStrategy(s string) (ReplaceStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "replace-all", "replaceall":
		return ReplaceAll, nil
	case "ignore", "ignore-missing", "ignoremissing":
		return IgnoreMissing, nil
	case "remove", "remove-missing", "removemissing":
		return RemoveMissing, nil
	default:
		return ReplaceAll, fmt.Errorf("unknown replace strategy %q", s)
	}
}

func (rs ReplaceStrategy) applyTo(s *settings) { s.strategy = rs }

func (d Delimiters) applyTo(s *settings) { s.delims = d }

func (h *HeaderFooterInstruction) applyTo(s *settings) {
	s.headerFooter = append(s.headerFooter, h)
}

func (di *DocumentInterceptor) applyTo(s *settings) {
	s.interceptors = append(s.interceptors, di)
}
