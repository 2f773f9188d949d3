// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pipeline implements the stages that semv strings together: each stage is a pure
// function from a list of records to a new list of records (or, for Format, to output lines).
//
// Every stage except Sort is order-preserving.  No stage modifies its input slice.
package pipeline

import (
	"slices"

	"github.com/samber/lo"

	"github.com/datawire/semv/pkg/version"
)

// ParseAll turns each input line in to a record.
func ParseAll(lines []string) []version.Record {
	return lo.Map(lines, func(line string, _ int) version.Record {
		return version.NewRecord(line)
	})
}

// FilterValid keeps only the records that are semantic versions, or (if invert is true) only the
// records that are not.
func FilterValid(records []version.Record, invert bool) []version.Record {
	return lo.Filter(records, func(rec version.Record, _ int) bool {
		return rec.Valid() != invert
	})
}

// FilterByRequirement drops the semantic versions that do not satisfy req.  Records that are not
// semantic versions are passed through untouched.
func FilterByRequirement(records []version.Record, req version.Requirement) []version.Record {
	return lo.Filter(records, func(rec version.Record, _ int) bool {
		return !rec.Valid() || req.Matches(rec.Version)
	})
}

// Sort returns a sorted copy of records, ordered by version.Compare; ascending, or descending if
// reverse is true.
func Sort(records []version.Record, reverse bool) []version.Record {
	ret := slices.Clone(records)
	if reverse {
		slices.SortFunc(ret, func(a, b version.Record) int {
			return version.Compare(b, a)
		})
	} else {
		slices.SortFunc(ret, version.Compare)
	}
	return ret
}
