package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readLines returns the input tokens: args if there are any, otherwise the lines of stdin.
//
// Only the line ending ("\n" or "\r\n") is removed from each line; blank and whitespace-only lines
// are returned as-is.  A final line without a trailing newline is still a line.
func readLines(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	// bufio.Reader rather than bufio.Scanner, so that there is no limit on line length.
	reader := bufio.NewReader(stdin)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if strings.HasSuffix(line, "\n") {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			lines = append(lines, line)
		} else if line != "" {
			lines = append(lines, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lines, nil
			}
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
