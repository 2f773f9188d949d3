// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pipeline_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/semv/pkg/pipeline"
	"github.com/datawire/semv/pkg/testutil"
	"github.com/datawire/semv/pkg/version"
)

func originals(records []version.Record) []string {
	ret := make([]string, 0, len(records))
	for _, rec := range records {
		ret = append(ret, rec.Original)
	}
	return ret
}

func TestParseAll(t *testing.T) {
	t.Parallel()
	act := pipeline.ParseAll([]string{"a", "v0.1.2", "", "1.2.3-alpha.1"})
	testutil.AssertEqualRecords(t, []version.Record{
		version.NewRecord("a"),
		version.NewRecord("v0.1.2"),
		version.NewRecord(""),
		version.NewRecord("1.2.3-alpha.1"),
	}, act)
	assert.Equal(t, []bool{false, true, false, true}, []bool{
		act[0].Valid(), act[1].Valid(), act[2].Valid(), act[3].Valid(),
	})
}

func TestFilterValid(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input  []string
		Invert bool
		Output []string
	}{
		"empty":               {nil, false, []string{}},
		"one-invalid":         {[]string{"invalid"}, false, []string{}},
		"ignore-non-semver":   {[]string{"invalid", "1.2.3"}, false, []string{"1.2.3"}},
		"ignore-semver":       {[]string{"invalid", "1.2.3"}, true, []string{"invalid"}},
		"order-preserving":    {[]string{"a", "0.1.2", "b", "1.2.3-alpha.1"}, false, []string{"0.1.2", "1.2.3-alpha.1"}},
		"order-preserving-nv": {[]string{"a", "0.1.2", "b", "1.2.3-alpha.1"}, true, []string{"a", "b"}},
		"v-prefix":            {[]string{"a", "v0.1.2", "b", "1.2.3-alpha.1"}, false, []string{"v0.1.2", "1.2.3-alpha.1"}},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			act := pipeline.FilterValid(pipeline.ParseAll(tc.Input), tc.Invert)
			assert.Equal(t, tc.Output, originals(act))
		})
	}
}

func TestFilterValidPartition(t *testing.T) {
	t.Parallel()
	cfg := testutil.QuickConfig{
		MaxCount: 500,
		Values:   testutil.VersionishListValues,
	}
	testutil.QuickCheck(t, func(input []string) bool {
		records := pipeline.ParseAll(input)
		valid := pipeline.FilterValid(records, false)
		invalid := pipeline.FilterValid(records, true)
		if len(valid)+len(invalid) != len(records) {
			return false
		}
		for _, rec := range valid {
			if !rec.Valid() {
				return false
			}
		}
		for _, rec := range invalid {
			if rec.Valid() {
				return false
			}
		}
		// Both halves are subsequences of the input, so together they are a permutation of it.
		all := append(originals(valid), originals(invalid)...)
		slices.Sort(all)
		exp := slices.Clone(input)
		slices.Sort(exp)
		return slices.Equal(exp, all)
	}, cfg, []interface{}{[]string{"a", "0.1.2", "b", "1.2.3-alpha.1"}})
}

func TestFilterByRequirement(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input       []string
		Requirement string
		Output      []string
	}{
		"empty":          {nil, ">=1.2.3, <1.8.0", []string{}},
		"pass":           {[]string{"1.2.3"}, ">=1.2.3, <1.8.0", []string{"1.2.3"}},
		"partial-deny":   {[]string{"1.2.2", "1.2.3"}, ">=1.2.3, <1.8.0", []string{"1.2.3"}},
		"ge":             {[]string{"1.1.0", "1.3.0", "2.0.0"}, ">=1.2.0", []string{"1.3.0", "2.0.0"}},
		"non-semver":     {[]string{"foo", "1.1.0", "bar", "1.3.0"}, ">=1.2.0", []string{"foo", "bar", "1.3.0"}},
		"v-prefix":       {[]string{"v1.1.0", "v1.3.0"}, ">=1.2.0", []string{"v1.3.0"}},
		"pre-excluded":   {[]string{"1.3.0-rc.1", "1.3.0"}, ">=1.2.0", []string{"1.3.0"}},
		"order-preserve": {[]string{"3.0.0", "1.0.0", "2.1.3", "1.5.0"}, ">1.2.0", []string{"3.0.0", "2.1.3", "1.5.0"}},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			req := version.MustParseRequirement(tc.Requirement)
			act := pipeline.FilterByRequirement(pipeline.ParseAll(tc.Input), req)
			assert.Equal(t, tc.Output, originals(act))
		})
	}
}

func TestFilterByRequirementKeepsNonSemver(t *testing.T) {
	t.Parallel()
	cfg := testutil.QuickConfig{
		MaxCount: 500,
		Values:   testutil.VersionishListValues,
	}
	req := version.MustParseRequirement(">=1.2.3, <1.8.0")
	testutil.QuickCheck(t, func(input []string) bool {
		records := pipeline.ParseAll(input)
		invalid := pipeline.FilterValid(records, true)
		kept := pipeline.FilterValid(pipeline.FilterByRequirement(records, req), true)
		return slices.Equal(originals(invalid), originals(kept))
	}, cfg)
}

func TestSort(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input   []string
		Reverse bool
		Output  []string
	}{
		"empty":   {nil, false, []string{}},
		"one":     {[]string{"1.2.3"}, false, []string{"1.2.3"}},
		"sort":    {[]string{"1.2.3", "0.1.2", "1.2.4"}, false, []string{"0.1.2", "1.2.3", "1.2.4"}},
		"reverse": {[]string{"1.2.3", "0.1.2", "1.2.4"}, true, []string{"1.2.4", "1.2.3", "0.1.2"}},
		"tags":    {[]string{"v1.2.3", "v1.2.2", "v2.0.0"}, false, []string{"v1.2.2", "v1.2.3", "v2.0.0"}},
		"mixed": {
			[]string{"1.0.0", "zeta", "1.0.0-rc.1", "alpha", "0.9.0"},
			false,
			[]string{"alpha", "zeta", "0.9.0", "1.0.0-rc.1", "1.0.0"},
		},
		"mixed-reverse": {
			[]string{"1.0.0", "zeta", "1.0.0-rc.1", "alpha", "0.9.0"},
			true,
			[]string{"1.0.0", "1.0.0-rc.1", "0.9.0", "zeta", "alpha"},
		},
		"build-ignored": {
			[]string{"1.0.1", "1.0.0+zzz", "1.0.0-rc+aaa"},
			false,
			[]string{"1.0.0-rc+aaa", "1.0.0+zzz", "1.0.1"},
		},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			input := pipeline.ParseAll(tc.Input)
			snapshot := slices.Clone(input)
			act := pipeline.Sort(input, tc.Reverse)
			assert.Equal(t, tc.Output, originals(act))
			// Sort returns a copy, and leaves its input alone.
			assert.Equal(t, originals(snapshot), originals(input))
		})
	}
}

func TestSortLaws(t *testing.T) {
	t.Parallel()
	cfg := testutil.QuickConfig{
		MaxCount: 500,
		Values:   testutil.VersionishListValues,
	}
	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		testutil.QuickCheckEqual(t,
			func(input []string) []string {
				return originals(pipeline.Sort(pipeline.ParseAll(input), false))
			},
			func(input []string) []string {
				return originals(pipeline.Sort(pipeline.Sort(pipeline.ParseAll(input), false), false))
			},
			cfg,
			[]interface{}{[]string{"2.0.0", "x", "v1.0.0", "1.0.0", "1.0.0-rc.1", "a"}})
	})
	t.Run("mirror", func(t *testing.T) {
		t.Parallel()
		testutil.QuickCheck(t, func(input []string) bool {
			records := pipeline.ParseAll(input)
			asc := originals(pipeline.Sort(records, false))
			desc := originals(pipeline.Sort(records, true))
			slices.Reverse(asc)
			return slices.Equal(asc, desc)
		}, cfg, []interface{}{[]string{"1.0.0", "v1.0.0", "1.0.0+b", "x", "x"}})
	})
}
