// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package registry

import (
	"fmt"

	"github.com/playbymail/asn2eth/cerrs"
	"github.com/playbymail/asn2eth/internal/ast"
	"github.com/playbymail/asn2eth/internal/conform"
	"github.com/playbymail/asn2eth/internal/oid"
	"github.com/sirupsen/logrus"
)

// itemKey is the path element given to anonymous members of SEQUENCE OF
// and SET OF types.
const itemKey = "_item"

// dummyProto marks types that were never declared or imported; the
// generated code calls dissect_xxx_<name> and the build fails loudly if
// the type really is missing.
const dummyProto = "xxx"

// TypeEntry is one row of the type table, keyed by canonical path.
type TypeEntry struct {
	Val     ast.Type // nil for imported types
	Import  string   // source module; empty for local types
	Proto   string
	TName   string // synthesised candidate wire name; may carry a "#" placeholder
	EthName string
	Export  int
	UserDef int
	NoEmit  int
	Attr    map[string]string
	TTag    [2]string
	HasTTag bool
}

// FieldEntry is one row of the field table, keyed by canonical path.
type FieldEntry struct {
	Type     string // key of the field's type
	Idx      string // index suffix for repeated items
	Impl     bool   // implicit tag
	Modified string // non-empty when FIELD_ATTR touched this field
	Attr     map[string]string
	EthName  string
}

// ValueEntry is one row of the value table.
type ValueEntry struct {
	Typ     ast.Type
	Val     ast.Value
	Import  string
	Proto   string
	Export  int
	EthName string
}

// EthType is one wire-named type: the unit of emission. Ref lists every
// canonical path that shares the name.
type EthType struct {
	Import  string
	Proto   string
	Export  int
	UserDef int
	NoEmit  int
	Val     ast.Type
	Attr    map[string]string
	Ref     []string
	Tree    string // ett handle; empty when the type needs no subtree
}

// EthHF is one wire-named header field.
type EthHF struct {
	FullName string
	EthType  string
	Modified string
	Attr     map[string]string
	Ref      []string
}

// EthValue is one wire-named value.
type EthValue struct {
	Import string
	Proto  string
	Export int
	Value  string
	Ref    []string
}

// NamedBit is one synthesised header field for a named bit of a BIT
// STRING.
type NamedBit struct {
	Name    string
	Val     int
	EthName string
	FType   string
	Display string
	Strings string
	Bitmask string
}

// Registry canonicalises every declared and anonymous type, field, and
// value of one compilation. All tables preserve insertion order. Entries
// are write-once; attribute bags are merge-only.
type Registry struct {
	Proto   string
	Conform *conform.Conform
	Log     *logrus.Logger

	tagDefaultImplicit bool

	Assign    map[string]ast.Type
	AssignOrd []string
	VAssign   map[string]*ast.ValueAssign
	VAssignOrd []string

	Types   map[string]*TypeEntry
	TypeOrd []string
	TypeImp []string

	Fields   map[string]*FieldEntry
	FieldOrd []string

	Values   map[string]*ValueEntry
	ValueOrd []string
	ValueImp []string

	TypeDep  map[string][]string
	ValueDep map[string][]string

	// populated by Prepare
	EthTypes     map[string]*EthType
	EthTypeOrd   []string
	EthTypeOrd1  []string // emission order: post-order of the dependency walk, dependencies first
	EthExportOrd []string
	EthTypeDupl  map[string][]string
	NamedBits    []NamedBit

	EthValues    map[string]*EthValue
	EthValueOrd  []string
	EthValueOrd1 []string
	EthVExportOrd []string

	EthHFs    map[string]*EthHF
	EthHFOrd  []string
	EthHFDupl map[string]map[string]string

	DepCycles [][]string
	CycleHead map[string][]int // head wire name -> indices into DepCycles
}

func New(proto string, cf *conform.Conform, log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		Proto:    proto,
		Conform:  cf,
		Log:      log,
		Assign:   make(map[string]ast.Type),
		VAssign:  make(map[string]*ast.ValueAssign),
		Types:    make(map[string]*TypeEntry),
		Fields:   make(map[string]*FieldEntry),
		Values:   make(map[string]*ValueEntry),
		TypeDep:  make(map[string][]string),
		ValueDep: make(map[string][]string),
	}
}

func defaultAttrs() map[string]string {
	return map[string]string{"TYPE": "FT_NONE", "DISPLAY": "BASE_NONE", "STRINGS": "NULL", "BITMASK": "0"}
}

func mergeAttrs(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// RegisterModule walks one module body: imports first, then every
// assignment.
func (r *Registry) RegisterModule(m *ast.Module) error {
	r.tagDefaultImplicit = m.TagDefault == ast.ModeImplicit
	if m.Body == nil {
		return nil
	}
	for _, im := range m.Body.Imports {
		proto := r.Conform.UseString(conform.TblModuleImport, im.Module, safeName(im.Module))
		for _, s := range im.Symbols {
			if s.IsType {
				if err := r.importType(s.Name, im.Module, proto); err != nil {
					return err
				}
			} else if err := r.importValue(s.Name, im.Module, proto); err != nil {
				return err
			}
		}
	}
	for _, a := range m.Body.Assignments {
		switch a := a.(type) {
		case *ast.TypeAssign:
			if r.Conform.UseOmit(a.Name) {
				continue
			}
			if err := r.regAssign(a.Name, a.Typ); err != nil {
				return err
			}
			if err := r.regTypeTree(a.Name, a.Typ, true, "", ""); err != nil {
				return err
			}
		case *ast.ValueAssign:
			if r.Conform.UseOmit(a.Ident) {
				continue
			}
			if err := r.regVAssign(a); err != nil {
				return err
			}
		case *ast.PyQuoteText:
			// pass-through text registers nothing and is not emitted
		}
	}
	return nil
}

func (r *Registry) regAssign(ident string, val ast.Type) error {
	if _, ok := r.Assign[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateAssignment)
	}
	r.Assign[ident] = val
	r.AssignOrd = append(r.AssignOrd, ident)
	return nil
}

func (r *Registry) regVAssign(va *ast.ValueAssign) error {
	if _, ok := r.VAssign[va.Ident]; ok {
		return fmt.Errorf("%s: %w", va.Ident, cerrs.ErrDuplicateValueAssignment)
	}
	r.VAssign[va.Ident] = va
	r.VAssignOrd = append(r.VAssignOrd, va.Ident)
	return r.regValue(va.Ident, va.Typ, va.Val)
}

func (r *Registry) importType(ident, mod, proto string) error {
	if _, ok := r.Types[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateType)
	}
	e := &TypeEntry{Import: mod, Proto: proto, Attr: defaultAttrs()}
	mergeAttrs(e.Attr, r.Conform.UseAttrs(conform.TblTypeAttr, ident))
	r.Types[ident] = e
	r.TypeImp = append(r.TypeImp, ident)
	return nil
}

func (r *Registry) importValue(ident, mod, proto string) error {
	if _, ok := r.Values[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateValue)
	}
	r.Values[ident] = &ValueEntry{Import: mod, Proto: proto}
	r.ValueImp = append(r.ValueImp, ident)
	return nil
}

func (r *Registry) regType(ident string, val ast.Type) error {
	if _, ok := r.Types[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateType)
	}
	e := &TypeEntry{Val: val}
	if isPath(ident) {
		e.TName = TName(val)
	} else {
		e.TName = safeName(ident)
	}
	e.Export = r.Conform.UseFlag(conform.TblExports, ident)
	e.UserDef = r.Conform.UseFlag(conform.TblUserDefined, ident)
	e.NoEmit = r.Conform.UseFlag(conform.TblNoEmit, ident)
	e.TName = r.Conform.UseString(conform.TblTypeRename, ident, e.TName)
	if _, isRef := val.(*ast.TypeRef); isRef {
		e.Attr = make(map[string]string)
	} else {
		ftype, display := FType(val)
		e.Attr = map[string]string{"TYPE": ftype, "DISPLAY": display, "STRINGS": Strings(val), "BITMASK": "0"}
	}
	mergeAttrs(e.Attr, r.Conform.UseAttrs(conform.TblTypeAttr, ident))
	r.Types[ident] = e
	r.TypeOrd = append(r.TypeOrd, ident)
	return nil
}

func (r *Registry) regValue(ident string, typ ast.Type, val ast.Value) error {
	if _, ok := r.Values[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateValue)
	}
	e := &ValueEntry{Typ: typ, Val: val}
	e.Export = r.Conform.UseFlag(conform.TblExports, ident)
	r.Values[ident] = e
	r.ValueOrd = append(r.ValueOrd, ident)
	return nil
}

func (r *Registry) regField(ident, typeKey, idx, parent string, impl bool) error {
	if _, ok := r.Fields[ident]; ok {
		return fmt.Errorf("%s: %w", ident, cerrs.ErrDuplicateField)
	}
	f := &FieldEntry{Type: typeKey, Idx: idx, Impl: impl, Attr: make(map[string]string)}
	if r.Conform.Check(conform.TblFieldAttr, ident) {
		f.Modified = "#" + ident
		mergeAttrs(f.Attr, r.Conform.UseAttrs(conform.TblFieldAttr, ident))
	}
	r.Fields[ident] = f
	r.FieldOrd = append(r.FieldOrd, ident)
	if parent != "" {
		r.depAdd(parent, typeKey)
	}
	return nil
}

func (r *Registry) depAdd(typeKey, dep string) {
	r.TypeDep[typeKey] = append(r.TypeDep[typeKey], dep)
}

// implicitTag resolves a tag's effective mode against the module default.
func (r *Registry) implicitTag(b *ast.TypeBase) bool {
	if b.Tag == nil {
		return false
	}
	switch b.Tag.Mode {
	case ast.ModeImplicit:
		return true
	case ast.ModeExplicit:
		return false
	}
	return r.tagDefaultImplicit
}

// ImplicitTagOf resolves a type's effective tag mode against the module
// default.
func (r *Registry) ImplicitTagOf(t ast.Type) bool {
	return r.implicitTag(t.Base())
}

// regTypeTree registers one type and recurses into its sub-structure. The
// key of a named member is "parent/field"; anonymous SEQUENCE OF and SET
// OF items get "parent/_item". Below the top level every registration
// writes a field entry on the parent. A type entry is written for every
// non-reference type and for a top-level reference; a member reference gets
// one only when it is renamed or has FN_* text, and otherwise its field
// points at the referenced type.
func (r *Registry) regTypeTree(ident string, t ast.Type, topLevel bool, idx, parent string) error {
	typeKey := ident
	if ref, isRef := t.(*ast.TypeRef); isRef {
		if topLevel {
			if err := r.regType(ident, t); err != nil {
				return err
			}
		} else if r.Conform.Check(conform.TblTypeRename, ident) || r.Conform.FnPresent(ident) {
			// a renamed or user-texted reference becomes its own type
			if err := r.regType(ident, t); err != nil {
				return err
			}
		} else {
			typeKey = ref.Val
		}
	} else {
		if err := r.regType(ident, t); err != nil {
			return err
		}
	}
	if !topLevel {
		if err := r.regField(ident, typeKey, idx, parent, r.implicitTag(t.Base())); err != nil {
			return err
		}
	}
	return r.regSub(ident, t)
}

// regSub recurses into the members of a constructed type and records the
// type dependencies each member introduces.
func (r *Registry) regSub(ident string, t ast.Type) error {
	switch t := t.(type) {
	case *ast.TypeRef:
		r.depAdd(ident, t.Val)
	case *ast.SequenceOf:
		return r.regOfItem(ident, t.Item, "[##]")
	case *ast.SetOf:
		return r.regOfItem(ident, t.Item, "(##)")
	case *ast.Sequence:
		for _, e := range t.Elements {
			if err := r.regMember(ident, e.Val); err != nil {
				return err
			}
		}
		for _, e := range t.Ext {
			if err := r.regMember(ident, e.Val); err != nil {
				return err
			}
		}
	case *ast.Set:
		for _, e := range t.Elements {
			if err := r.regMember(ident, e.Val); err != nil {
				return err
			}
		}
		for _, e := range t.Ext {
			if err := r.regMember(ident, e.Val); err != nil {
				return err
			}
		}
	case *ast.Choice:
		for _, a := range t.Alts {
			if err := r.regMember(ident, a); err != nil {
				return err
			}
		}
		for _, a := range t.Ext {
			if err := r.regMember(ident, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Registry) regMember(parent string, t ast.Type) error {
	key := parent
	if t.Base().IsNamed() {
		key = parent + "/" + t.Base().FieldName
	}
	return r.regTypeTree(key, t, false, "", parent)
}

func (r *Registry) regOfItem(parent string, item ast.Type, idx string) error {
	key := parent
	if item.Base().IsNamed() {
		key = parent + "/" + item.Base().FieldName
	} else {
		key = parent + "/" + itemKey
	}
	return r.regTypeTree(key, item, false, idx, parent)
}

// valueDep reports the value a value expression depends on.
func valueDep(v ast.Value) string {
	switch v := v.(type) {
	case *ast.ObjectIdentifierValue:
		return oid.Dep(v)
	case *ast.Ident:
		return v.Name
	}
	return ""
}

// renderValue renders a value expression as generated-code text.
func renderValue(v ast.Value) string {
	switch v := v.(type) {
	case *ast.ObjectIdentifierValue:
		return oid.Render(v)
	default:
		return ast.ValueText(v)
	}
}
