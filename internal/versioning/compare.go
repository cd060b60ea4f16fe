// Package versioning orders free-form component version strings newest first.
package versioning

import (
	"regexp"
	"slices"
	"strings"
)

// v1.2.3-rc.1+build: optional alphabetic tag, dotted numbers, optional
// pre-release identifiers, optional (ignored) build metadata.
var versionPattern = regexp.MustCompile(`^[A-Za-z]*(\d+(?:\.\d+)*)(?:-([0-9A-Za-z]+(?:[.-][0-9A-Za-z]+)*))?(?:\+[0-9A-Za-z.-]+)?$`)

type parsedVersion struct {
	numbers    []string
	prerelease []string
}

func parse(s string) (parsedVersion, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return parsedVersion{}, false
	}
	v := parsedVersion{numbers: strings.Split(m[1], ".")}
	if m[2] != "" {
		v.prerelease = strings.FieldsFunc(m[2], func(r rune) bool { return r == '.' || r == '-' })
	}
	return v, true
}

// Compare orders version strings newest first: it returns a negative
// number when a sorts before (is newer than) b, zero when a == b, and a
// positive number otherwise.
//
// Strings that parse as versions are compared numerically segment by
// segment. A release is newer than any pre-release of the same numbers,
// and a shorter release such as "9" is newer than every "9.x" it prefixes.
// Strings that are not versions (master, dev) sort before all versions and
// among themselves in descending natural order. Remaining ties fall back
// to the written form so the order is total.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	va, okA := parse(a)
	vb, okB := parse(b)
	switch {
	case okA && okB:
		if c := compareParsed(va, vb); c != 0 {
			return -c
		}
	case okA:
		return 1
	case okB:
		return -1
	default:
		if c := compareNatural(a, b); c != 0 {
			return -c
		}
	}
	return -strings.Compare(a, b)
}

// Sort orders versions newest first in place.
func Sort(versions []string) {
	slices.SortStableFunc(versions, Compare)
}

// Newest returns the newest of versions, or "" when there are none.
func Newest(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	return slices.MinFunc(versions, Compare)
}

// compareParsed returns >0 when a is newer than b.
//
// Each version is read as its numbers followed by a terminator that ranks
// above any number for a release and below any number for a pre-release.
func compareParsed(a, b parsedVersion) int {
	for i := 0; ; i++ {
		endA, endB := i >= len(a.numbers), i >= len(b.numbers)
		switch {
		case endA && endB:
			return comparePrerelease(a.prerelease, b.prerelease)
		case endA:
			return terminatorRank(a)
		case endB:
			return -terminatorRank(b)
		}
		if c := compareNumeric(a.numbers[i], b.numbers[i]); c != 0 {
			return c
		}
	}
}

func terminatorRank(v parsedVersion) int {
	if v.prerelease == nil {
		return 1
	}
	return -1
}

// comparePrerelease follows semver precedence; no pre-release is highest.
func comparePrerelease(a, b []string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		numA, numB := isDigits(a[i]), isDigits(b[i])
		var c int
		switch {
		case numA && numB:
			c = compareNumeric(a[i], b[i])
		case numA:
			c = -1
		case numB:
			c = 1
		default:
			c = strings.Compare(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// compareNumeric compares two digit strings of any length by value.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// compareNatural compares strings chunk by chunk, digit runs by value.
func compareNatural(a, b string) int {
	ca, cb := chunks(a), chunks(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		var c int
		if isDigits(ca[i]) && isDigits(cb[i]) {
			c = compareNumeric(ca[i], cb[i])
		} else {
			c = strings.Compare(ca[i], cb[i])
		}
		if c != 0 {
			return c
		}
	}
	return len(ca) - len(cb)
}

func chunks(s string) []string {
	var out []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			out = append(out, s[start:i])
			start = i
		}
	}
	return out
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
