// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser_test

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
	"github.com/playbymail/asn2eth/internal/ast"
	"github.com/playbymail/asn2eth/internal/parser"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	m, err := parser.Parse([]byte(src), parser.Config{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

func TestModuleHeader(t *testing.T) {
	m := parse(t, `
Test-Module { iso standard(0) 42 } DEFINITIONS IMPLICIT TAGS ::= BEGIN
Age ::= INTEGER
END
`)
	if m.Ident != "Test-Module" {
		t.Errorf("ident: got %q", m.Ident)
	}
	if m.TagDefault != ast.ModeImplicit {
		t.Errorf("tag default: got %v", m.TagDefault)
	}
	if m.OID == nil || len(m.OID.Components) != 3 {
		t.Fatalf("definitive oid: got %+v", m.OID)
	}
	if len(m.Body.Assignments) != 1 {
		t.Fatalf("assignments: got %d", len(m.Body.Assignments))
	}
}

func TestImportsExports(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
EXPORTS Foo, bar;
IMPORTS Baz, quux FROM Other-Module;
Foo ::= INTEGER
END
`)
	if diff := deep.Equal(m.Body.Exports, []string{"Foo", "bar"}); diff != nil {
		t.Error(diff)
	}
	if len(m.Body.Imports) != 1 {
		t.Fatalf("imports: got %d", len(m.Body.Imports))
	}
	im := m.Body.Imports[0]
	if im.Module != "Other-Module" {
		t.Errorf("module: got %q", im.Module)
	}
	want := []ast.Symbol{{Name: "Baz", IsType: true}, {Name: "quux"}}
	if diff := deep.Equal(im.Symbols, want); diff != nil {
		t.Error(diff)
	}
}

func TestConstrainedInteger(t *testing.T) {
	m := parse(t, "M DEFINITIONS ::= BEGIN\nAge ::= INTEGER (0..120)\nEND\n")
	ta := m.Body.Assignments[0].(*ast.TypeAssign)
	in, ok := ta.Typ.(*ast.Integer)
	if !ok {
		t.Fatalf("want Integer, got %T", ta.Typ)
	}
	c := in.Base().Constraint
	if c == nil || c.Kind != ast.ValueRange {
		t.Fatalf("constraint: got %+v", c)
	}
	minv, maxv, ext, ok := c.RangeBounds()
	if !ok || minv != "0" || maxv != "120" || ext {
		t.Errorf("bounds: got %q..%q ext=%v", minv, maxv, ext)
	}
}

func TestTaggedChoice(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
Msg ::= CHOICE { hello [0] IA5String, goodbye [1] IMPLICIT IA5String }
END
`)
	ta := m.Body.Assignments[0].(*ast.TypeAssign)
	ch := ta.Typ.(*ast.Choice)
	if len(ch.Alts) != 2 || ch.HasExt {
		t.Fatalf("alts: %d ext=%v", len(ch.Alts), ch.HasExt)
	}
	hello := ch.Alts[0].Base()
	if hello.FieldName != "hello" || hello.Tag == nil || hello.Tag.Num != "0" || hello.Tag.Class != ast.ClassContext {
		t.Errorf("hello: %+v tag=%+v", hello.FieldName, hello.Tag)
	}
	if hello.Tag.Mode != ast.ModeDefault {
		t.Errorf("hello mode: %v", hello.Tag.Mode)
	}
	goodbye := ch.Alts[1].Base()
	if goodbye.Tag == nil || goodbye.Tag.Mode != ast.ModeImplicit {
		t.Errorf("goodbye tag: %+v", goodbye.Tag)
	}
}

func TestSequenceWithExtensionsAndDefaults(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
Rec ::= SEQUENCE {
  name PrintableString (SIZE (1..32)),
  age  INTEGER OPTIONAL,
  flag BOOLEAN DEFAULT TRUE,
  ...,
  extra OCTET STRING
}
END
`)
	ta := m.Body.Assignments[0].(*ast.TypeAssign)
	sq := ta.Typ.(*ast.Sequence)
	if len(sq.Elements) != 3 || !sq.HasExt || len(sq.Ext) != 1 {
		t.Fatalf("elements: %d ext=%v/%d", len(sq.Elements), sq.HasExt, len(sq.Ext))
	}
	if !sq.Elements[1].Optional {
		t.Errorf("age should be optional")
	}
	if b, ok := sq.Elements[2].Default.(*ast.Bool); !ok || !b.Val {
		t.Errorf("flag default: %+v", sq.Elements[2].Default)
	}
	name := sq.Elements[0].Val.Base()
	if name.Constraint == nil || name.Constraint.Kind != ast.Size {
		t.Errorf("size constraint: %+v", name.Constraint)
	}
}

func TestSequenceOfAndEmptySet(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
Trees ::= SEQUENCE (SIZE (1..8)) OF Tree
Empty ::= SET { }
END
`)
	sof := m.Body.Assignments[0].(*ast.TypeAssign).Typ.(*ast.SequenceOf)
	if _, ok := sof.Item.(*ast.TypeRef); !ok {
		t.Errorf("item: %T", sof.Item)
	}
	if sof.Base().Constraint == nil || sof.Base().Constraint.Kind != ast.Size {
		t.Errorf("size constraint: %+v", sof.Base().Constraint)
	}
	st := m.Body.Assignments[1].(*ast.TypeAssign).Typ.(*ast.Set)
	if len(st.Elements) != 0 || st.HasExt {
		t.Errorf("empty set: %+v", st)
	}
}

func TestParameterisedNameMangling(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
Holder { Param } ::= SEQUENCE { item Param }
Use ::= Holder { INTEGER }
END
`)
	first := m.Body.Assignments[0].(*ast.TypeAssign)
	if first.Name != "Holderxxx" {
		t.Errorf("definition name: got %q", first.Name)
	}
	use := m.Body.Assignments[1].(*ast.TypeAssign)
	ref := use.Typ.(*ast.TypeRef)
	if ref.Val != "Holderxxx" {
		t.Errorf("reference name: got %q", ref.Val)
	}
}

func TestValueAssignments(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
maxAge INTEGER ::= 120
rootOID OBJECT IDENTIFIER ::= { iso standard(0) 42 }
childOID OBJECT IDENTIFIER ::= { rootOID 7 }
END
`)
	va := m.Body.Assignments[0].(*ast.ValueAssign)
	if va.Ident != "maxAge" {
		t.Errorf("ident: %q", va.Ident)
	}
	if n, ok := va.Val.(*ast.Number); !ok || n.Text != "120" {
		t.Errorf("value: %+v", va.Val)
	}
	oidVal := m.Body.Assignments[1].(*ast.ValueAssign).Val.(*ast.ObjectIdentifierValue)
	want := []ast.OIDComponent{
		{Name: "iso"},
		{Name: "standard", Number: "0", HasNumber: true},
		{Number: "42"},
	}
	if diff := deep.Equal(oidVal.Components, want); diff != nil {
		t.Error(diff)
	}
}

func TestConstraintVariants(t *testing.T) {
	m := parse(t, `
M DEFINITIONS ::= BEGIN
A ::= IA5String (FROM ("a".."z"))
B ::= PrintableString (SIZE (1..8, ...))
C ::= INTEGER (MIN..0)
D ::= OCTET STRING (CONSTRAINED BY { checksum })
E ::= INTEGER (Other)
END
`)
	get := func(i int) *ast.Constraint {
		return m.Body.Assignments[i].(*ast.TypeAssign).Typ.Base().Constraint
	}
	if c := get(0); c.Kind != ast.From {
		t.Errorf("A: %v", c.Kind)
	}
	if c := get(1); c.Kind != ast.Size || !c.Sub.Ext {
		t.Errorf("B: %+v", c)
	}
	if c := get(2); c.Kind != ast.ValueRange || c.Lo != nil || ast.ValueText(c.Hi) != "0" {
		t.Errorf("C: %+v", c)
	}
	if c := get(3); c.Kind != ast.UserDefined || c.Text != "checksum" {
		t.Errorf("D: %+v", c)
	}
	if c := get(4); c.Kind != ast.ContainedSubtype {
		t.Errorf("E: %+v", c)
	}
}

func TestParseError(t *testing.T) {
	_, err := parser.Parse([]byte("M DEFINITIONS ::= BEGIN\nAge ::= ::=\nEND\n"), parser.Config{})
	var parseErr *parser.ParseError
	if err == nil || !errors.As(err, &parseErr) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("line: got %d", parseErr.Line)
	}
}

// Reparsing the formatted rendering of a module must yield a structurally
// equal tree.
func TestFormatReparse(t *testing.T) {
	src := `
Test-Module DEFINITIONS IMPLICIT TAGS ::= BEGIN
IMPORTS External FROM Other;
Age ::= INTEGER (0..120)
Color ::= ENUMERATED { red, green(5), blue, ... }
Msg ::= CHOICE { hello [0] IA5String, goodbye [1] IMPLICIT IA5String }
Tree ::= SEQUENCE { val INTEGER, children SEQUENCE OF Tree }
Flags ::= BIT STRING { up(0), down(1) }
maxAge INTEGER ::= 120
END
`
	m1 := parse(t, src)
	m2 := parse(t, ast.Format(m1))
	if diff := deep.Equal(m1, m2); diff != nil {
		t.Error(diff)
	}
}
