package prolog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input  string
		cookie bool
		prolog []string
		body   []string
	}{
		"empty": {
			input: "",
		},
		"no prolog": {
			input: "package main\n",
			body:  []string{"package main\n"},
		},
		"shebang and cookie": {
			input:  "#!/usr/bin/env python3\n# -*- coding: utf-8 -*-\nimport os\n",
			cookie: true,
			prolog: []string{"#!/usr/bin/env python3\n", "# -*- coding: utf-8 -*-\n"},
			body:   []string{"import os\n"},
		},
		"cookie ignored for other languages": {
			input: "# coding: utf-8\nx = 1\n",
			body:  []string{"# coding: utf-8\n", "x = 1\n"},
		},
		"xml declaration": {
			input:  "<?xml version=\"1.0\"?>\n<root/>\n",
			prolog: []string{"<?xml version=\"1.0\"?>\n"},
			body:   []string{"<root/>\n"},
		},
		"doctype": {
			input:  "<!DOCTYPE html>\n<html>\n",
			prolog: []string{"<!DOCTYPE html>\n"},
			body:   []string{"<html>\n"},
		},
		"php open tag after shebang": {
			input:  "#!/usr/bin/env php\n<?php\necho 1;\n",
			prolog: []string{"#!/usr/bin/env php\n", "<?php\n"},
			body:   []string{"echo 1;\n"},
		},
		"build tags with blank": {
			input:  "//go:build linux\n// +build linux\n\npackage x\n",
			prolog: []string{"//go:build linux\n", "// +build linux\n", "\n"},
			body:   []string{"package x\n"},
		},
		"build tag synthesizes blank": {
			input:  "//go:build linux\npackage x\n",
			prolog: []string{"//go:build linux\n", Blank},
			body:   []string{"package x\n"},
		},
		"rust inner attributes": {
			input:  "#![allow(dead_code)]\n#![deny(unsafe_code)]\n\nfn main() {}\n",
			prolog: []string{"#![allow(dead_code)]\n", "#![deny(unsafe_code)]\n", "\n"},
			body:   []string{"fn main() {}\n"},
		},
		"inner attribute without blank": {
			input:  "#![no_std]\nuse core::fmt;\n",
			prolog: []string{"#![no_std]\n"},
			body:   []string{"use core::fmt;\n"},
		},
		"rust shebang is not an attribute": {
			input:  "#!/usr/bin/env run-cargo-script\n#![allow(unused)]\nfn main() {}\n",
			prolog: []string{"#!/usr/bin/env run-cargo-script\n", "#![allow(unused)]\n"},
			body:   []string{"fn main() {}\n"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			prolog, body := Split(SplitLines(tc.input), tc.cookie)
			assert.Equal(t, tc.prolog, prolog)
			assert.Equal(t, tc.body, body)
		})
	}
}

func TestSplitPreservesContent(t *testing.T) {
	t.Parallel()

	input := "#!/bin/sh\n<?xml version=\"1.0\"?>\n# coding: latin-1\n//go:build x\n\n#![a]\nrest\n"
	prolog, body := Split(SplitLines(input), true)
	assert.Equal(t, input, strings.Join(prolog, "")+strings.Join(body, ""))
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLines("a\nb"))
	assert.Equal(t, []string{"a\r\n", "\n"}, SplitLines("a\r\n\n"))
}
