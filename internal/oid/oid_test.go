// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package oid_test

import (
	"testing"

	"github.com/playbymail/asn2eth/internal/ast"
	"github.com/playbymail/asn2eth/internal/oid"
	"github.com/stretchr/testify/assert"
)

func oidValue(comps ...ast.OIDComponent) *ast.ObjectIdentifierValue {
	return &ast.ObjectIdentifierValue{Components: comps}
}

func TestRenderWellKnownArcs(t *testing.T) {
	// { itu-t recommendation h(8) } resolves through the fixed arc table
	v := oidValue(
		ast.OIDComponent{Name: "itu-t"},
		ast.OIDComponent{Name: "recommendation"},
		ast.OIDComponent{Name: "h", Number: "8", HasNumber: true},
	)
	assert.Equal(t, `"0.0.8"`, oid.Render(v))

	v = oidValue(
		ast.OIDComponent{Name: "iso"},
		ast.OIDComponent{Name: "standard", Number: "0", HasNumber: true},
		ast.OIDComponent{Number: "42"},
	)
	assert.Equal(t, `"1.0.42"`, oid.Render(v))

	v = oidValue(
		ast.OIDComponent{Name: "joint-iso-itu-t"},
		ast.OIDComponent{Name: "mhs"},
	)
	assert.Equal(t, `"2.6"`, oid.Render(v))
}

func TestRenderValueReferencePrefix(t *testing.T) {
	// a symbolic head that is not a root arc renders outside the quotes so
	// the generated code can concatenate the referenced prefix
	v := oidValue(
		ast.OIDComponent{Name: "rootOID"},
		ast.OIDComponent{Number: "7"},
	)
	assert.Equal(t, `rootOID".7"`, oid.Render(v))
}

func TestDep(t *testing.T) {
	assert.Equal(t, "rootOID", oid.Dep(oidValue(
		ast.OIDComponent{Name: "rootOID"},
		ast.OIDComponent{Number: "7"},
	)))
	// root arcs and plain numbers carry no dependency
	assert.Equal(t, "", oid.Dep(oidValue(ast.OIDComponent{Name: "iso"})))
	assert.Equal(t, "", oid.Dep(oidValue(ast.OIDComponent{Number: "2"})))
	assert.Equal(t, "", oid.Dep(oidValue(ast.OIDComponent{Name: "h", Number: "8", HasNumber: true})))
}
