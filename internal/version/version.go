// Package version parses, classifies, and orders version-like tag names.
//
// A tag name qualifies as a version when it carries at least a numeric
// major.minor pair, optionally preceded by a literal prefix (commonly "v")
// and optionally followed by a patch number, a pre-release label, and a
// trailing numeric pre-release counter.
//
// Ordering across two pre-release tags with identical numeric keys but
// different labels is lexical only; it is not a proper total order and
// downstream consumers depend on the existing behavior, so it is kept as-is.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// tagPattern decomposes a raw tag name. The prefix is any non-digit run
// before the major number; the remainder after major.minor[.patch] must not
// start with a digit.
var tagPattern = regexp.MustCompile(`^(?P<prefix>\D*?)(?P<major>\d+)\.(?P<minor>\d+)(?:\.(?P<patch>\d+))?(?P<rest>\D.*)?$`)

// counterPattern splits a pre-release remainder into an opaque label and a
// trailing numeric counter ("rc1" -> "rc", 1).
var counterPattern = regexp.MustCompile(`^(?P<label>.*?)(?P<counter>\d+)$`)

// Tag is an immutable parsed version tag. Tags are produced freshly from raw
// strings on every parse; there is no persistent identity.
type Tag struct {
	Raw    string
	Prefix string
	Major  int
	Minor  int

	// Patch is only meaningful when HasPatch is true. A missing patch sorts
	// below any present patch, so "1.2" is smaller than "1.2.0".
	Patch    int
	HasPatch bool

	// Label is the opaque pre-release label including its separator
	// characters ("-rc.", ".dev", "b"). Empty for a plain release.
	Label string

	// Counter is the trailing numeric pre-release counter, only meaningful
	// when HasCounter is true. An absent counter sorts below any counter.
	Counter    int
	HasCounter bool
}

// Parse decomposes a raw tag name into a Tag. It returns ok=false when the
// string does not carry both a major and a minor number.
func Parse(raw string) (Tag, bool) {
	m := tagPattern.FindStringSubmatch(raw)
	if m == nil {
		return Tag{}, false
	}

	t := Tag{Raw: raw, Prefix: m[1]}

	var err error
	if t.Major, err = strconv.Atoi(m[2]); err != nil {
		return Tag{}, false
	}
	if t.Minor, err = strconv.Atoi(m[3]); err != nil {
		return Tag{}, false
	}
	if m[4] != "" {
		if t.Patch, err = strconv.Atoi(m[4]); err != nil {
			return Tag{}, false
		}
		t.HasPatch = true
	}

	rest := m[5]
	if rest != "" {
		if cm := counterPattern.FindStringSubmatch(rest); cm != nil {
			t.Label = cm[1]
			n, err := strconv.Atoi(cm[2])
			if err != nil {
				return Tag{}, false
			}
			t.Counter = n
			t.HasCounter = true
		} else {
			t.Label = rest
		}
	}

	return t, true
}

// String returns the original raw tag name.
func (t Tag) String() string {
	return t.Raw
}

// Base returns the release-only portion of the tag (prefix plus
// major.minor[.patch]), ignoring any pre-release suffix.
func (t Tag) Base() string {
	if t.HasPatch {
		return fmt.Sprintf("%s%d.%d.%d", t.Prefix, t.Major, t.Minor, t.Patch)
	}
	return fmt.Sprintf("%s%d.%d", t.Prefix, t.Major, t.Minor)
}

// IsBase reports whether the tag is a plain release with no pre-release
// label or counter.
func (t Tag) IsBase() bool {
	return t.Label == "" && !t.HasCounter
}

// SameBase reports whether two tags share the same major.minor.patch triple.
func (t Tag) SameBase(o Tag) bool {
	return CompareBase(t, o) == 0
}

// CompareBase compares only the major.minor.patch triples of two tags,
// returning -1, 0, or 1. A missing patch sorts below any present patch.
func CompareBase(a, b Tag) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	return compareOptionalInt(a.Patch, a.HasPatch, b.Patch, b.HasPatch)
}

// Compare applies the full five-key ordering: major, minor, patch, label,
// counter. It is only meaningful within one basevers family; across families
// use CompareBase.
func Compare(a, b Tag) int {
	if c := CompareBase(a, b); c != 0 {
		return c
	}
	if a.Label != b.Label {
		if a.Label < b.Label {
			return -1
		}
		return 1
	}
	return compareOptionalInt(a.Counter, a.HasCounter, b.Counter, b.HasCounter)
}

// LargestBase parses all raw tag names, discards the unparsable, and returns
// the tag with the largest major.minor.patch triple. ok=false when no raw
// string qualifies as a version.
func LargestBase(raws []string) (Tag, bool) {
	var best Tag
	found := false
	for _, raw := range raws {
		t, ok := Parse(raw)
		if !ok {
			continue
		}
		if !found || CompareBase(t, best) > 0 {
			best = t
			found = true
		}
	}
	return best, found
}

// LargestFull returns the largest tag under the full ordering among the raw
// names sharing base's major.minor.patch triple. Full ordering across
// different basevers families is not meaningful, so other families are
// skipped.
func LargestFull(raws []string, base Tag) (Tag, bool) {
	var best Tag
	found := false
	for _, raw := range raws {
		t, ok := Parse(raw)
		if !ok || !t.SameBase(base) {
			continue
		}
		if !found || Compare(t, best) > 0 {
			best = t
			found = true
		}
	}
	return best, found
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareOptionalInt treats an absent value as smaller than any present one.
func compareOptionalInt(a int, aok bool, b int, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return compareInt(a, b)
}
