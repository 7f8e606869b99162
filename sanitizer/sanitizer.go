// Package sanitizer provides composable rune-level rules for cleaning text
// before it is written into log lines or substituted into file names.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // Control characters (unicode.IsControl)
	FilterPathReserved                    // Runes that are invalid in a file name on common platforms
	FilterWhitespace                      // Whitespace (unicode.IsSpace)
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Removes the character
	TransformHexEncode                     // Encodes the character's UTF-8 bytes as "<XXYY>"
	TransformUnderscore                    // Replaces the character with '_'
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw      PolicyPreset = "raw"      // Passthrough
	PolicyTxt      PolicyPreset = "txt"      // Message text written to log files
	PolicyFilename PolicyPreset = "filename" // Values substituted into file names
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw: {},
	PolicyTxt: {
		// Line breaks and tabs are legitimate in multi-line messages
		{filter: FilterNonPrintable, transform: TransformHexEncode},
	},
	PolicyFilename: {
		{filter: FilterPathReserved | FilterControl, transform: TransformUnderscore},
	},
}

var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool {
		if r == '\n' || r == '\t' || r == '\r' {
			return false
		}
		return !strconv.IsPrint(r)
	},
	FilterControl: unicode.IsControl,
	FilterPathReserved: func(r rune) bool {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return true
		}
		return false
	},
	FilterWhitespace: unicode.IsSpace,
}

// Sanitizer applies an ordered list of rules, first match wins.
// A Sanitizer is immutable once built and safe for concurrent use.
type Sanitizer struct {
	rules []rule
}

// New creates an empty (passthrough) sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// Rule returns a copy of the sanitizer with a custom rule appended
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	return s.with(rule{filter: filter, transform: transform})
}

// Policy returns a copy of the sanitizer with a preset's rules appended
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	return s.with(policyRules[preset]...)
}

func (s *Sanitizer) with(rules ...rule) *Sanitizer {
	next := make([]rule, 0, len(s.rules)+len(rules))
	next = append(next, s.rules...)
	next = append(next, rules...)
	return &Sanitizer{rules: next}
}

// Sanitize applies the configured rules to data
func (s *Sanitizer) Sanitize(data string) string {
	if s == nil || len(s.rules) == 0 {
		return data
	}

	// Fast path: nothing to change
	dirty := false
	for _, r := range data {
		if s.match(r) != nil {
			dirty = true
			break
		}
	}
	if !dirty {
		return data
	}

	var b strings.Builder
	b.Grow(len(data) + 8)
	for _, r := range data {
		rl := s.match(r)
		if rl == nil {
			b.WriteRune(r)
			continue
		}
		applyTransform(&b, r, rl.transform)
	}
	return b.String()
}

func (s *Sanitizer) match(r rune) *rule {
	for i := range s.rules {
		if matchesFilter(r, s.rules[i].filter) {
			return &s.rules[i]
		}
	}
	return nil
}

func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

func applyTransform(b *strings.Builder, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:
		// dropped

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		b.WriteByte('<')
		b.WriteString(hex.EncodeToString(runeBytes[:n]))
		b.WriteByte('>')

	case (transformMask & TransformUnderscore) != 0:
		b.WriteByte('_')

	default:
		b.WriteRune(r)
	}
}
