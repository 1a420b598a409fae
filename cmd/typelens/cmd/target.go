package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// target is a parsed lookup argument: a file plus either a line/column
// position or a symbol name with an optional line hint.
type target struct {
	file   string
	byName bool
	name   string
	line   int
	column int
}

// parseTarget parses the positional argument grammar:
//
//	<file>:<line>:<column>
//	<file>:<name>
//	<file>:<name>:<line>
//
// Segments are taken from the right so the file part may itself contain
// colons (e.g. Windows drive letters). A numeric segment must be a valid
// 1-based line/column; numbers never name symbols.
func parseTarget(arg string) (*target, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 {
		return nil, formatErr(arg)
	}

	last := parts[len(parts)-1]

	if isNumeric(last) {
		lastNum, ok := parsePositive(last)
		if !ok || len(parts) < 3 {
			return nil, formatErr(arg)
		}
		prev := parts[len(parts)-2]
		file := strings.Join(parts[:len(parts)-2], ":")
		if file == "" {
			return nil, formatErr(arg)
		}
		if isNumeric(prev) {
			// <file>:<line>:<column>
			line, ok := parsePositive(prev)
			if !ok {
				return nil, formatErr(arg)
			}
			return &target{file: file, line: line, column: lastNum}, nil
		}
		// <file>:<name>:<line>
		if prev == "" {
			return nil, formatErr(arg)
		}
		return &target{file: file, byName: true, name: prev, line: lastNum}, nil
	}

	// <file>:<name>
	file := strings.Join(parts[:len(parts)-1], ":")
	if file == "" || last == "" {
		return nil, formatErr(arg)
	}
	return &target{file: file, byName: true, name: last}, nil
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func formatErr(arg string) error {
	return fmt.Errorf("invalid target %q: expected <file>:<line>:<column> or <file>:<name>[:<line>]", arg)
}
