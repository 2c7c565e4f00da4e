package document

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidPattern marks a malformed regular expression given to
// Find. It is distinct from "not found" so callers can report it.
var ErrInvalidPattern = errors.New("invalid search pattern")

// Find searches for pattern and, on a hit, selects the match with the
// anchor at its start and the cursor at its end. The search starts at
// the forward or backward edge of the current selection, wraps around
// the buffer boundary exactly once, and reports whether a match was
// found. An empty pattern never matches and has no side effects.
func (d *Document) Find(pattern string, forward, isRegex, caseSensitive bool) (bool, error) {
	if pattern == "" || len(d.text) == 0 {
		return false, nil
	}

	var start int
	if forward {
		_, start = d.SelectedRange()
	} else {
		start, _ = d.SelectedRange()
	}

	var lo, hi int
	var found bool
	if isRegex {
		var err error
		lo, hi, found, err = d.findRegex(pattern, start, forward, caseSensitive)
		if err != nil {
			return false, err
		}
	} else {
		lo, hi, found = d.findLiteral(pattern, start, forward, caseSensitive)
	}
	if !found {
		return false, nil
	}

	d.anchor = lo
	d.cursor = hi
	d.emitCursor()
	return true, nil
}

func (d *Document) findRegex(pattern string, start int, forward, caseSensitive bool) (lo, hi int, found bool, err error) {
	flags := "(?m)"
	if !caseSensitive {
		flags = "(?mi)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	s := string(d.text)
	startB := len(string(d.text[:start]))
	matches := re.FindAllStringIndex(s, -1)
	var span []int
	if forward {
		for _, m := range matches {
			if m[0] >= startB {
				span = m
				break
			}
		}
		if span == nil {
			for _, m := range matches {
				if m[1] <= startB {
					span = m
					break
				}
			}
		}
	} else {
		for _, m := range matches {
			if m[1] <= startB {
				span = m
			}
		}
		if span == nil {
			for _, m := range matches {
				if m[0] >= startB {
					span = m
				}
			}
		}
	}
	if span == nil {
		return 0, 0, false, nil
	}
	return utf8.RuneCountInString(s[:span[0]]), utf8.RuneCountInString(s[:span[1]]), true, nil
}

func (d *Document) findLiteral(pattern string, start int, forward, caseSensitive bool) (lo, hi int, found bool) {
	source := d.text
	needle := []rune(pattern)
	if !caseSensitive {
		source = lowerRunes(d.text)
		needle = lowerRunes(needle)
	}

	idx := -1
	if forward {
		idx = runeIndex(source, needle, start, len(source))
		if idx < 0 {
			idx = runeIndex(source, needle, 0, start)
		}
	} else {
		idx = runeLastIndex(source, needle, 0, start)
		if idx < 0 {
			idx = runeLastIndex(source, needle, start, len(source))
		}
	}
	if idx < 0 {
		return 0, 0, false
	}
	return idx, idx + len(needle), true
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// runeIndex returns the first start of needle fully inside hay[from:to],
// or -1. Offsets are rune indices.
func runeIndex(hay, needle []rune, from, to int) int {
	for i := from; i+len(needle) <= to; i++ {
		if runesEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// runeLastIndex returns the last start of needle fully inside
// hay[from:to], or -1.
func runeLastIndex(hay, needle []rune, from, to int) int {
	for i := to - len(needle); i >= from; i-- {
		if runesEqual(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
