// Package prolog separates the lines that must stay physically first in a
// source file from the rest of its content.
package prolog

import (
	"regexp"
	"strings"
)

var (
	cookieRe  = regexp.MustCompile(`^#.*coding[:=]\s*[-\w.]+`)
	doctypeRe = regexp.MustCompile(`(?i)^<!doctype\b`)
)

// Blank is the separator line synthesized after build directives that are
// not already followed by a blank line.
const Blank = "\n"

// Split returns (prolog, body). Lines keep their terminators. The rules run
// in a fixed order and each consumes zero or more lines:
//
//  1. a shebang on the first line
//  2. one document declaration (<?xml, <?php, <!DOCTYPE)
//  3. an encoding cookie, when encodingCookie is set
//  4. consecutive build-constraint lines, then one blank line (synthesized
//     when the next line is not blank)
//  5. consecutive inner-attribute lines (#![...]), then one blank line if present
//
// prolog+body equals lines except for the one line rule 4 may add.
func Split(lines []string, encodingCookie bool) (prolog, body []string) {
	if len(lines) == 0 {
		return nil, nil
	}

	i := 0
	if strings.HasPrefix(lines[0], "#!") && !strings.HasPrefix(lines[0], "#![") {
		prolog = append(prolog, lines[0])
		i = 1
	}

	if i < len(lines) && isDocumentDeclaration(lines[i]) {
		prolog = append(prolog, lines[i])
		i++
	}

	if encodingCookie && i < len(lines) && cookieRe.MatchString(lines[i]) {
		prolog = append(prolog, lines[i])
		i++
	}

	if i < len(lines) && isBuildDirective(lines[i]) {
		for i < len(lines) && isBuildDirective(lines[i]) {
			prolog = append(prolog, lines[i])
			i++
		}
		if i < len(lines) && isBlank(lines[i]) {
			prolog = append(prolog, lines[i])
			i++
		} else {
			prolog = append(prolog, Blank)
		}
	}

	if i < len(lines) && isInnerAttribute(lines[i]) {
		for i < len(lines) && isInnerAttribute(lines[i]) {
			prolog = append(prolog, lines[i])
			i++
		}
		if i < len(lines) && isBlank(lines[i]) {
			prolog = append(prolog, lines[i])
			i++
		}
	}

	return prolog, lines[i:]
}

func isDocumentDeclaration(line string) bool {
	s := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "<?php") || doctypeRe.MatchString(s)
}

func isBuildDirective(line string) bool {
	return strings.HasPrefix(line, "//go:build") || strings.HasPrefix(line, "// +build")
}

func isInnerAttribute(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#![")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// SplitLines splits content into lines that keep their "\n" terminators.
// A final line without a terminator is returned as-is; empty content yields
// no lines.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
