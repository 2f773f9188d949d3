// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/datawire/semv/pkg/version"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump returns a deterministic multi-line dump of v, suitable for diffing.
func Dump(v interface{}) string {
	return spewConfig.Sdump(v)
}

func unifiedDiff(exp, act string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(exp),
		B:        difflib.SplitLines(act),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	return diff
}

// AssertEqualLines asserts that two lists of output lines are identical, and reports a unified
// diff if they are not.
func AssertEqualLines(t *testing.T, exp, act []string) bool {
	t.Helper()
	expStr := joinLines(exp)
	actStr := joinLines(act)
	if expStr != actStr {
		t.Errorf("Line diff:\n%s", unifiedDiff(expStr, actStr))
		return false
	}
	return true
}

// AssertEqualOutput is like AssertEqualLines, but for newline-terminated text such as the
// captured stdout of a command.
func AssertEqualOutput(t *testing.T, exp, act string) bool {
	t.Helper()
	if exp != act {
		t.Errorf("Output diff:\n%s", unifiedDiff(exp, act))
		return false
	}
	return true
}

// AssertEqualRecords asserts that two lists of records are identical, comparing the original
// strings and the full parsed versions.
func AssertEqualRecords(t *testing.T, exp, act []version.Record) bool {
	t.Helper()
	expStr := dumpRecords(exp)
	actStr := dumpRecords(act)
	if expStr != actStr {
		t.Errorf("Record diff:\n%s", unifiedDiff(expStr, actStr))
		return false
	}
	return true
}

func dumpRecords(recs []version.Record) string {
	var ret strings.Builder
	for _, rec := range recs {
		ret.WriteString(rec.Original)
		ret.WriteString(" = ")
		if rec.Version == nil {
			ret.WriteString("<nil>\n")
			continue
		}
		ret.WriteString(Dump(struct {
			Major, Minor, Patch uint64
			Pre, Build          string
		}{
			rec.Version.Major(), rec.Version.Minor(), rec.Version.Patch(),
			rec.Version.Prerelease(), rec.Version.Metadata(),
		}))
	}
	return ret.String()
}

func joinLines(lines []string) string {
	var ret strings.Builder
	for _, line := range lines {
		ret.WriteString(line)
		ret.WriteString("\n")
	}
	return ret.String()
}
