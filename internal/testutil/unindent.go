package testutil

import "strings"

// Unindent removes common leading whitespace from a multi-line string,
// allowing for readable, indented HCL snippets in Go tests.
func Unindent(s string) string {
	lines := strings.Split(s, "\n")

	// Drop the empty first and last lines multi-line literals tend to have.
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(lines, "\n")
}
