// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/semv/pkg/cliutil"
)

func TestWrap(t *testing.T) {
	t.Parallel()
	para := "Longer description of program.  This is a paragraph.  " +
		"Because it is a paragraph, it may be quite long and " +
		"may need to be word-wrapped."
	testcases := map[string]struct {
		Indent int
		Width  int
		Input  string
		Output string
	}{
		"no-wrap": {0, 0, para, para},
		"80": {0, 80, para, "" +
			"Longer description of program.  This is a paragraph.  Because it is a\n" +
			"paragraph, it may be quite long and may need to be word-wrapped."},
		"40": {0, 40, para, "" +
			"Longer description of program.\n" +
			"This is a paragraph.  Because it\n" +
			"is a paragraph, it may be quite\n" +
			"long and may need to be word-wrapped."},
		"paragraphs": {0, 40, "one two\n\nthree four", "one two\n\nthree four"},
		"long-word": {0, 10, "abcdefghijklmnop q", "abcdefghijklmnop\nq"},
		"indent": {4, 30, "the quick brown fox jumps over the lazy dog", "" +
			"the quick brown fox\n" +
			"    jumps over the lazy dog"},
		"no-runt": {0, 20, "aaaa bbbb cccc ddd e", "aaaa bbbb cccc ddd e"},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			if tc.Indent == 0 {
				assert.Equal(t, tc.Output, cliutil.Wrap(tc.Width, tc.Input))
			}
			assert.Equal(t, tc.Output, cliutil.WrapIndent(tc.Indent, tc.Width, tc.Input))
		})
	}
}
