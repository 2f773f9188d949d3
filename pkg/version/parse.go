// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package version classifies, orders, and range-matches Semantic Versioning 2.0.0 strings.
package version

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// semverGrammar is the regular expression recommended by https://semver.org/ for checking a
// string against the Semantic Versioning 2.0.0 grammar.
//
// semver.StrictNewVersion is close to this, but is more forgiving about some pre-release
// identifiers; so we gate on the grammar first and let the library build the value.
var semverGrammar = regexp.MustCompile(`^` +
	`(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)` +
	`(?:-((?:0|[1-9][0-9]*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9][0-9]*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?` +
	`$`)

func parseStrict(str string) *semver.Version {
	if !semverGrammar.MatchString(str) {
		return nil
	}
	ver, err := semver.StrictNewVersion(str)
	if err != nil {
		// Grammatically fine, but a numeric component overflows uint64.
		return nil
	}
	return ver
}

// Parse parses a string as a semantic version.  If the string as a whole is not a valid semantic
// version, then a single leading "v" is stripped and the parse is retried once.
//
// Parse returns nil if neither attempt succeeds; it never returns an error.
func Parse(str string) *semver.Version {
	if ver := parseStrict(str); ver != nil {
		return ver
	}
	if trimmed := strings.TrimPrefix(str, "v"); trimmed != str {
		return parseStrict(trimmed)
	}
	return nil
}

// IsValid returns whether Parse would succeed on str.
func IsValid(str string) bool {
	return Parse(str) != nil
}
