// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package splice folds generated fragment files into a template C or H
// file. An include directive naming a fragment is replaced by the fragment
// contents bracketed with marker comments; the fragment is deleted once
// copied. Every other template line passes through verbatim.
package splice

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/afero"
)

var rxInclude = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

// File copies template into target, splicing fragments. The template is
// read fully before the target is written, so target may name the
// template itself. Only fragments in the given list are spliced; an
// include of a listed fragment that does not exist passes through
// unchanged. A fragment is deleted only after its contents are copied.
func File(fs afero.Fs, target, template string, fragments []string) error {
	known := make(map[string]bool, len(fragments))
	for _, f := range fragments {
		known[f] = true
	}
	src, err := afero.ReadFile(fs, template)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	var out bytes.Buffer
	var done []string
	lines := bytes.Split(src, []byte("\n"))
	for i, line := range lines {
		if i == len(lines)-1 && len(line) == 0 {
			break // trailing newline artifact of the split
		}
		m := rxInclude.FindSubmatch(line)
		if m == nil || !known[string(m[1])] {
			out.Write(line)
			out.WriteByte('\n')
			continue
		}
		frag := string(m[1])
		body, err := afero.ReadFile(fs, frag)
		if err != nil {
			out.Write(line)
			out.WriteByte('\n')
			continue
		}
		fmt.Fprintf(&out, "/*--- Included file: %s ---*/\n", frag)
		out.Write(body)
		fmt.Fprintf(&out, "/*--- End of included file: %s ---*/\n", frag)
		done = append(done, frag)
	}
	if err := afero.WriteFile(fs, target, out.Bytes(), 0644); err != nil {
		return err
	}
	for _, frag := range done {
		if err := fs.Remove(frag); err != nil {
			return err
		}
	}
	return nil
}
