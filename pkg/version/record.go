// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// A Record is a single input token, along with its parsed semantic version (if it is one).
//
// A Record is either "parsed" (Version is non-nil) or "unparsed" (Version is nil); Compare defines
// how the two kinds order against each other.
type Record struct {
	// Original is the input token exactly as it was given, including any "v" prefix.
	Original string
	// Version is nil if Original is not a semantic version; see Parse.
	Version *semver.Version
}

// NewRecord returns a Record for the token str.
func NewRecord(str string) Record {
	return Record{
		Original: str,
		Version:  Parse(str),
	}
}

// Valid returns whether the record holds a parsed semantic version.
func (rec Record) Valid() bool {
	return rec.Version != nil
}

// GoString implements fmt.GoStringer.
func (rec Record) GoString() string {
	if rec.Version == nil {
		return fmt.Sprintf("version.Record{Original:%q, Version:nil}", rec.Original)
	}
	return fmt.Sprintf("version.Record{Original:%q, Version:%q}", rec.Original, rec.Version.String())
}

// Compare returns a number < 0 if record 'a' is less than record 'b', > 0 if 'a' is greater than
// 'b', or 0 if they are equal.
//
//  - Two parsed records compare by semantic-version precedence; build metadata is ignored.
//  - A parsed record is always greater than an unparsed one.
//  - Two unparsed records compare lexicographically by Original.
//
// Records of equal precedence (for example "1.0.0" and "v1.0.0+build") fall back to comparing
// Original, so Compare only returns 0 for records with identical Original strings.
func Compare(a, b Record) int {
	switch {
	case a.Version != nil && b.Version != nil:
		if d := a.Version.Compare(b.Version); d != 0 {
			return d
		}
	case a.Version != nil:
		return 1
	case b.Version != nil:
		return -1
	}
	return strings.Compare(a.Original, b.Original)
}
