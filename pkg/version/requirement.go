// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version requirements
// ====================
//
// A requirement is a comma-separated list of comparators, all of which must match:
//
//     >=1.2.0, <2.0.0
//
// A comparator is an optional operator followed by a possibly-partial version:
//
//     [OP]MAJOR[.MINOR[.PATCH[-PRE]]]
//
// A comparator without an operator is a caret comparator.  The minor and patch components may be
// a wildcard ("*", "x", or "X"), as may the entire version; wildcards are only permitted with no
// operator or with "=".  Build metadata is never permitted in a comparator.

// A ParseError is returned by ParseRequirement for a malformed requirement expression.
type ParseError struct {
	Input string
	Msg   string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("version.ParseRequirement: invalid requirement %q: %s", e.Input, e.Msg)
}

// Requirement is the conjunction of its comparators.  The empty Requirement (as parsed from "*")
// matches every version that does not have a pre-release.
type Requirement []Comparator

// ParseRequirement parses a requirement expression such as ">=1.2.0, <2.0.0".
func ParseRequirement(str string) (Requirement, error) {
	if strings.TrimSpace(str) == "" {
		return nil, &ParseError{Input: str, Msg: "empty requirement"}
	}
	clauseStrs := strings.Split(str, ",")
	ret := make(Requirement, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		clauseStr = strings.TrimSpace(clauseStr)
		if clauseStr == "" {
			return nil, &ParseError{Input: str, Msg: "empty comparator"}
		}
		cmp, star, err := parseComparator(clauseStr)
		if err != nil {
			return nil, &ParseError{Input: str, Msg: err.Error()}
		}
		if star {
			continue
		}
		ret = append(ret, cmp)
	}
	return ret, nil
}

// MustParseRequirement is like ParseRequirement, but panics on error.
func MustParseRequirement(str string) Requirement {
	req, err := ParseRequirement(str)
	if err != nil {
		panic(err)
	}
	return req
}

func (req Requirement) String() string {
	if len(req) == 0 {
		return "*"
	}
	clauses := make([]string, 0, len(req))
	for _, cmp := range req {
		clauses = append(clauses, cmp.String())
	}
	return strings.Join(clauses, ", ")
}

// Matches returns whether ver satisfies every comparator in the requirement.
//
// A version with a pre-release only matches if, in addition, at least one of the comparators
// names a pre-release of the same MAJOR.MINOR.PATCH; so ">=1.2.3-alpha" matches "1.2.3-beta" but
// not "1.2.4-beta", and ">=1.0.0" matches neither.
func (req Requirement) Matches(ver *semver.Version) bool {
	if ver == nil {
		return false
	}
	for _, cmp := range req {
		if !cmp.Matches(ver) {
			return false
		}
	}
	if ver.Prerelease() == "" {
		return true
	}
	for _, cmp := range req {
		if cmp.allowsPrereleaseOf(ver) {
			return true
		}
	}
	return false
}

type Op int

const (
	OpExact Op = iota
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpTilde
	OpCaret
	OpWildcard
)

func (op Op) String() string {
	str, ok := map[Op]string{
		OpExact:     "=",
		OpGreater:   ">",
		OpGreaterEq: ">=",
		OpLess:      "<",
		OpLessEq:    "<=",
		OpTilde:     "~",
		OpCaret:     "^",
		OpWildcard:  "",
	}[op]
	if !ok {
		panic(fmt.Errorf("invalid Op: %d", int(op)))
	}
	return str
}

// A Comparator is a single clause of a Requirement.  Minor and Patch are nil when that component
// was omitted (or was a wildcard) in the comparator.
type Comparator struct {
	Op    Op
	Major uint64
	Minor *uint64
	Patch *uint64
	Pre   string
}

func (cmp Comparator) String() string {
	var ret strings.Builder
	ret.WriteString(cmp.Op.String())
	fmt.Fprintf(&ret, "%d", cmp.Major)
	switch {
	case cmp.Minor == nil:
		if cmp.Op == OpWildcard {
			ret.WriteString(".*")
		}
	case cmp.Patch == nil:
		fmt.Fprintf(&ret, ".%d", *cmp.Minor)
		if cmp.Op == OpWildcard {
			ret.WriteString(".*")
		}
	default:
		fmt.Fprintf(&ret, ".%d.%d", *cmp.Minor, *cmp.Patch)
		if cmp.Pre != "" {
			fmt.Fprintf(&ret, "-%s", cmp.Pre)
		}
	}
	return ret.String()
}

// Matches returns whether ver satisfies this single comparator, without regard to the pre-release
// rule that Requirement.Matches applies across all comparators.
func (cmp Comparator) Matches(ver *semver.Version) bool {
	fn, ok := map[Op]func(cmp Comparator, ver *semver.Version) bool{
		OpExact:     matchExact,
		OpGreater:   matchGreater,
		OpGreaterEq: matchGreaterEq,
		OpLess:      matchLess,
		OpLessEq:    matchLessEq,
		OpTilde:     matchTilde,
		OpCaret:     matchCaret,
		OpWildcard:  matchWildcard,
	}[cmp.Op]
	if !ok {
		panic(fmt.Errorf("invalid Op: %d", int(cmp.Op)))
	}
	return fn(cmp, ver)
}

func (cmp Comparator) allowsPrereleaseOf(ver *semver.Version) bool {
	return cmp.Pre != "" &&
		cmp.Major == ver.Major() &&
		cmp.Minor != nil && *cmp.Minor == ver.Minor() &&
		cmp.Patch != nil && *cmp.Patch == ver.Patch()
}

// comparePrerelease compares two pre-release strings by semantic-version precedence; the empty
// string (no pre-release) is greater than any pre-release.
func comparePrerelease(a, b string) int {
	return semver.New(0, 0, 0, a, "").Compare(semver.New(0, 0, 0, b, ""))
}

func matchExact(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return false
	}
	if cmp.Minor != nil && ver.Minor() != *cmp.Minor {
		return false
	}
	if cmp.Patch != nil && ver.Patch() != *cmp.Patch {
		return false
	}
	return ver.Prerelease() == cmp.Pre
}

func matchGreater(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return ver.Major() > cmp.Major
	}
	if cmp.Minor == nil {
		return false
	}
	if ver.Minor() != *cmp.Minor {
		return ver.Minor() > *cmp.Minor
	}
	if cmp.Patch == nil {
		return false
	}
	if ver.Patch() != *cmp.Patch {
		return ver.Patch() > *cmp.Patch
	}
	return comparePrerelease(ver.Prerelease(), cmp.Pre) > 0
}

func matchLess(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return ver.Major() < cmp.Major
	}
	if cmp.Minor == nil {
		return false
	}
	if ver.Minor() != *cmp.Minor {
		return ver.Minor() < *cmp.Minor
	}
	if cmp.Patch == nil {
		return false
	}
	if ver.Patch() != *cmp.Patch {
		return ver.Patch() < *cmp.Patch
	}
	return comparePrerelease(ver.Prerelease(), cmp.Pre) < 0
}

func matchGreaterEq(cmp Comparator, ver *semver.Version) bool {
	return matchExact(cmp, ver) || matchGreater(cmp, ver)
}

func matchLessEq(cmp Comparator, ver *semver.Version) bool {
	return matchExact(cmp, ver) || matchLess(cmp, ver)
}

// matchTilde allows patch-level changes if a minor version is specified, and minor-level changes
// if it isn't.
//
//     ~1.2.3  :=  >=1.2.3, <1.3.0
//     ~1.2    :=  >=1.2.0, <1.3.0
//     ~1      :=  >=1.0.0, <2.0.0
func matchTilde(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return false
	}
	if cmp.Minor != nil && ver.Minor() != *cmp.Minor {
		return false
	}
	if cmp.Patch != nil && ver.Patch() != *cmp.Patch {
		return ver.Patch() > *cmp.Patch
	}
	return comparePrerelease(ver.Prerelease(), cmp.Pre) >= 0
}

// matchCaret allows changes that do not modify the left-most non-zero component.
//
//     ^1.2.3  :=  >=1.2.3, <2.0.0
//     ^0.2.3  :=  >=0.2.3, <0.3.0
//     ^0.0.3  :=  >=0.0.3, <0.0.4
//     ^1.2    :=  >=1.2.0, <2.0.0
//     ^0.0    :=  >=0.0.0, <0.1.0
//     ^1      :=  >=1.0.0, <2.0.0
func matchCaret(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return false
	}
	if cmp.Minor == nil {
		return true
	}
	minor := *cmp.Minor
	if cmp.Patch == nil {
		if cmp.Major > 0 {
			return ver.Minor() >= minor
		}
		return ver.Minor() == minor
	}
	patch := *cmp.Patch

	switch {
	case cmp.Major > 0:
		if ver.Minor() != minor {
			return ver.Minor() > minor
		}
		if ver.Patch() != patch {
			return ver.Patch() > patch
		}
	case minor > 0:
		if ver.Minor() != minor {
			return false
		}
		if ver.Patch() != patch {
			return ver.Patch() > patch
		}
	default:
		if ver.Minor() != minor || ver.Patch() != patch {
			return false
		}
	}
	return comparePrerelease(ver.Prerelease(), cmp.Pre) >= 0
}

func matchWildcard(cmp Comparator, ver *semver.Version) bool {
	if ver.Major() != cmp.Major {
		return false
	}
	return cmp.Minor == nil || ver.Minor() == *cmp.Minor
}

var prereleaseGrammar = regexp.MustCompile(`^` +
	`(?:0|[1-9][0-9]*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*)` +
	`(?:\.(?:0|[1-9][0-9]*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*))*` +
	`$`)

func isWildcard(str string) bool {
	return str == "*" || str == "x" || str == "X"
}

func parseNumeric(name, str string) (uint64, error) {
	if str == "" {
		return 0, fmt.Errorf("empty %s version number", name)
	}
	if strings.TrimLeft(str, "0123456789") != "" {
		return 0, fmt.Errorf("unexpected character in %s version number %q", name, str)
	}
	if len(str) > 1 && str[0] == '0' {
		return 0, fmt.Errorf("invalid leading zero in %s version number %q", name, str)
	}
	num, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s version number %q out of range", name, str)
	}
	return num, nil
}

// parseComparator parses a single comparator.  The returned 'star' is true for a bare wildcard
// (which matches everything and so contributes no comparator).
func parseComparator(str string) (cmp Comparator, star bool, err error) {
	var opStr string
	for _, candidate := range []string{">=", "<=", ">", "<", "=", "~", "^"} {
		if strings.HasPrefix(str, candidate) {
			opStr = candidate
			break
		}
	}
	cmp.Op, _ = map[string]Op{
		"":   OpCaret,
		"=":  OpExact,
		">":  OpGreater,
		">=": OpGreaterEq,
		"<":  OpLess,
		"<=": OpLessEq,
		"~":  OpTilde,
		"^":  OpCaret,
	}[opStr]
	str = strings.TrimSpace(str[len(opStr):])
	if str == "" {
		return cmp, false, fmt.Errorf("missing version after %q", opStr)
	}
	if strings.ContainsAny(str, " \t") {
		return cmp, false, fmt.Errorf("unexpected whitespace in %q; comparators must be separated by commas", str)
	}
	if strings.Contains(str, "+") {
		return cmp, false, fmt.Errorf("build metadata not permitted in comparator %q", str)
	}

	core, pre, hasPre := strings.Cut(str, "-")
	if hasPre && !prereleaseGrammar.MatchString(pre) {
		return cmp, false, fmt.Errorf("invalid pre-release %q", pre)
	}
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return cmp, false, fmt.Errorf("too many components in version %q", core)
	}

	wildcardAt := -1
	for i, part := range parts {
		if isWildcard(part) {
			if wildcardAt < 0 {
				wildcardAt = i
			}
			continue
		}
		if wildcardAt >= 0 {
			return cmp, false, fmt.Errorf("unexpected %q after wildcard in %q", part, core)
		}
	}
	if wildcardAt >= 0 {
		if opStr != "" && opStr != "=" {
			return cmp, false, fmt.Errorf("wildcard not permitted with operator %q", opStr)
		}
		if hasPre {
			return cmp, false, fmt.Errorf("pre-release not permitted with wildcard in %q", str)
		}
		if wildcardAt == 0 {
			return cmp, true, nil
		}
		cmp.Op = OpWildcard
		parts = parts[:wildcardAt]
	}

	names := []string{"major", "minor", "patch"}
	nums := make([]uint64, len(parts))
	for i, part := range parts {
		nums[i], err = parseNumeric(names[i], part)
		if err != nil {
			return cmp, false, err
		}
	}
	cmp.Major = nums[0]
	if len(nums) > 1 {
		cmp.Minor = &nums[1]
	}
	if len(nums) > 2 {
		cmp.Patch = &nums[2]
	}
	if hasPre {
		if cmp.Patch == nil {
			return cmp, false, fmt.Errorf("pre-release %q requires a patch version", pre)
		}
		cmp.Pre = pre
	}
	return cmp, false, nil
}
