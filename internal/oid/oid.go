// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package oid resolves the well-known top arcs of the object-identifier
// tree (ITU-T, ISO, and joint-ISO-ITU-T) and renders OBJECT IDENTIFIER
// values as the quoted dotted strings the generated dissector expects.
package oid

import (
	"strings"

	"github.com/playbymail/asn2eth/internal/ast"
)

// arcNames maps "<parent-number-path>/<name>" to the arc number. The root
// arcs use an empty parent path.
var arcNames = map[string]string{
	"/itu-t":                    "0",
	"0/recommendation":          "0",
	"0.0/h":                     "8",
	"0.0/q":                     "17",
	"0.0/x":                     "24",
	"0/question":                "1",
	"0/administration":          "2",
	"0/network-operator":        "3",
	"0/identified-organization": "4",
	"0/r-recommendation":        "5",
	"0/data":                    "9",
	"/iso":                      "1",
	"1/standard":                "0",
	"1/registration-authority":  "1",
	"1/member-body":             "2",
	"1/identified-organization": "3",
	"/joint-iso-itu-t":          "2",
	"2/presentation":            "0",
	"2/asn1":                    "1",
	"2/association-control":     "2",
	"2/reliable-transfer":       "3",
	"2/remote-operations":       "4",
	"2/ds":                      "5",
	"2/mhs":                     "6",
	"2/ccr":                     "7",
	"2/oda":                     "8",
	"2/ms":                      "9",
}

// lookup resolves one arc name under the given numeric parent path. Names
// that are not in the table come back unchanged.
func lookup(path, name string) string {
	if num, ok := arcNames[path+"/"+name]; ok {
		return num
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Render converts an OBJECT IDENTIFIER value to the quoted dotted string
// emitted into generated code. A leading component that stays symbolic
// after arc lookup is assumed to be a value reference and is emitted
// outside the quotes, so the C side can concatenate the referenced prefix.
func Render(v *ast.ObjectIdentifierValue) string {
	var out strings.Builder
	var path string
	first := true
	sep := ""
	for _, c := range v.Components {
		var vstr string
		switch {
		case c.HasNumber:
			vstr = c.Number
		case isDigits(c.Name) || c.Name == "":
			if c.Name == "" {
				vstr = c.Number
			} else {
				vstr = c.Name
			}
		default:
			vstr = lookup(path, c.Name)
		}
		if first {
			if isDigits(vstr) {
				out.WriteString(`"` + vstr)
			} else {
				out.WriteString(vstr + `"`)
			}
		} else {
			out.WriteString(sep + vstr)
		}
		path += sep + vstr
		first = false
		sep = "."
	}
	out.WriteString(`"`)
	return out.String()
}

// Dep reports the value reference an OBJECT IDENTIFIER value depends on:
// its first component when that component is a bare name that does not
// resolve to a root arc. The empty string means no dependency.
func Dep(v *ast.ObjectIdentifierValue) string {
	if len(v.Components) == 0 {
		return ""
	}
	c := v.Components[0]
	if c.HasNumber || c.Name == "" || isDigits(c.Name) {
		return ""
	}
	if vstr := lookup("", c.Name); isDigits(vstr) {
		return ""
	}
	return c.Name
}
