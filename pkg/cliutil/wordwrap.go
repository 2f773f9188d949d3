// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

// splitWords splits a paragraph in to words, each with the run of spaces that precede it; so that
// joining the result gives back the original paragraph, and double-spacing after a period
// survives.
func splitWords(para string) []string {
	var words []string
	start := 0
	for start < len(para) {
		end := start
		for end < len(para) && para[end] == ' ' {
			end++
		}
		for end < len(para) && para[end] != ' ' {
			end++
		}
		words = append(words, para[start:end])
		start = end
	}
	return words
}

func wrap(indent, width int, s string) string {
	if width <= 0 {
		return s
	}
	soft := width - 5
	prefix := strings.Repeat(" ", indent)

	var ret strings.Builder
	for p, para := range strings.Split(s, "\n") {
		if p > 0 {
			ret.WriteString("\n")
			if para != "" {
				ret.WriteString(prefix)
			}
		}
		words := splitWords(para)
		lineLen := indent
		lineEmpty := true
	wordLoop:
		for n, word := range words {
			rest := strings.Join(words[n:], "")
			switch {
			case lineEmpty:
				word = strings.TrimLeft(word, " ")
			case lineLen+len(rest) <= width:
				// Everything else fits within the hard limit; don't leave a runt line.
				ret.WriteString(rest)
				break wordLoop
			case lineLen+len(word) >= soft:
				ret.WriteString("\n")
				ret.WriteString(prefix)
				lineLen = indent
				word = strings.TrimLeft(word, " ")
			}
			ret.WriteString(word)
			lineLen += len(word)
			lineEmpty = false
		}
	}
	return ret.String()
}
