// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package registry

import (
	"strings"

	"github.com/playbymail/asn2eth/internal/ast"
)

// safeName turns an ASN.1 name into a C identifier.
func safeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func isPath(key string) bool {
	return strings.Contains(key, "/")
}

func lastElem(key string) string {
	parts := strings.Split(key, "/")
	return parts[len(parts)-1]
}

// anonPlaceholder marks a type whose wire name must be synthesised from
// its canonical path during Prepare.
func anonPlaceholder(t ast.Type) string {
	return "#" + ast.VariantName(t)
}

// constrName builds the name fragment for a single-value, range, or size
// constraint, mirroring the shared-type naming of constrained primitives.
func constrName(c *ast.Constraint) string {
	ext := ""
	if c.Ext {
		ext = "_"
	}
	switch c.Kind {
	case ast.SingleValue:
		return safeName(ast.ValueText(c.Value)) + ext
	case ast.ValueRange:
		lo := "MIN"
		if c.Lo != nil {
			lo = ast.ValueText(c.Lo)
		}
		hi := "MAX"
		if c.Hi != nil {
			hi = ast.ValueText(c.Hi)
		}
		return safeName(lo) + "_" + safeName(hi) + ext
	case ast.Size:
		return "SIZE_" + constrName(c.Sub) + ext
	}
	return "CONSTR" + ext
}

// sizeNamed reports whether the constraint is a SIZE over a single value
// or range, the only sizes that contribute to shared type names.
func sizeNamed(c *ast.Constraint) bool {
	return c != nil && c.Kind == ast.Size && c.Sub != nil &&
		(c.Sub.Kind == ast.SingleValue || c.Sub.Kind == ast.ValueRange)
}

// TName returns the candidate wire name of a type. Constrained primitives
// fold the constraint into the name so that equal shapes share one emitted
// type; shapes that cannot be named that way return a "#" placeholder and
// are renamed from their canonical path.
func TName(t ast.Type) string {
	b := t.Base()
	switch t := t.(type) {
	case *ast.TypeRef:
		return t.Val
	case *ast.Boolean:
		return "BOOLEAN"
	case *ast.Null:
		return "NULL"
	case *ast.Real:
		return "REAL"
	case *ast.ObjectIdentifier:
		return "OBJECT_IDENTIFIER"
	case *ast.Integer:
		if len(t.Named) > 0 {
			return anonPlaceholder(t)
		}
		if b.Constraint == nil {
			return "INTEGER"
		}
		if k := b.Constraint.Kind; k == ast.SingleValue || k == ast.ValueRange {
			return "INTEGER_" + constrName(b.Constraint)
		}
		return anonPlaceholder(t)
	case *ast.BitString:
		if len(t.Named) > 0 {
			return anonPlaceholder(t)
		}
		if b.Constraint == nil {
			return "BIT_STRING"
		}
		if sizeNamed(b.Constraint) {
			return "BIT_STRING_" + constrName(b.Constraint)
		}
		return anonPlaceholder(t)
	case *ast.OctetString:
		if b.Constraint == nil {
			return "OCTET_STRING"
		}
		if sizeNamed(b.Constraint) {
			return "OCTET_STRING_" + constrName(b.Constraint)
		}
		return anonPlaceholder(t)
	case *ast.CharString:
		if b.Constraint == nil {
			return t.Kind.String()
		}
		if sizeNamed(b.Constraint) {
			return t.Kind.String() + "_" + constrName(b.Constraint)
		}
		return anonPlaceholder(t)
	case *ast.SequenceOf:
		return "SEQUNCE_OF_" + TName(t.Item)
	case *ast.SetOf:
		return "SET_OF_" + TName(t.Item)
	}
	return anonPlaceholder(t)
}

// FType returns the display type and base of a variant.
func FType(t ast.Type) (ftype, display string) {
	switch t := t.(type) {
	case *ast.Boolean:
		return "FT_BOOLEAN", "8"
	case *ast.Integer:
		if c := t.Base().Constraint; c != nil {
			if minv, _, _, ok := c.RangeBounds(); ok && isUnsigned(minv) {
				return "FT_UINT32", "BASE_DEC"
			}
		}
		return "FT_INT32", "BASE_DEC"
	case *ast.Enumerated, *ast.Choice, *ast.SequenceOf, *ast.SetOf:
		return "FT_UINT32", "BASE_DEC"
	case *ast.OctetString, *ast.BitString:
		return "FT_BYTES", "BASE_HEX"
	case *ast.CharString, *ast.ObjectIdentifier:
		return "FT_STRING", "BASE_NONE"
	}
	return "FT_NONE", "BASE_NONE"
}

func isUnsigned(bound string) bool {
	if bound == "" || bound == "MIN" {
		return false
	}
	for i := 0; i < len(bound); i++ {
		if bound[i] < '0' || bound[i] > '9' {
			return false
		}
	}
	return true
}

// Strings returns the STRINGS attribute of a variant. The "$$" placeholder
// resolves to VALS(<name>_vals) once the wire name is fixed.
func Strings(t ast.Type) string {
	switch t := t.(type) {
	case *ast.Enumerated, *ast.Choice:
		return "$$"
	case *ast.Integer:
		if len(t.Named) > 0 {
			return "$$"
		}
	}
	return "NULL"
}

// HasVals reports whether the variant carries a value-string table.
func HasVals(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.Enumerated, *ast.Choice:
		return true
	case *ast.Integer:
		return len(t.Named) > 0
	}
	return false
}

// NeedTree reports whether the variant registers a display subtree.
func NeedTree(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.Sequence, *ast.Set, *ast.Choice, *ast.SequenceOf, *ast.SetOf:
		return true
	case *ast.BitString:
		return len(t.Named) > 0
	}
	return false
}

// NamedBitsOf returns the named bits of a BIT STRING variant.
func NamedBitsOf(t ast.Type) []ast.NamedNumber {
	if bs, ok := t.(*ast.BitString); ok {
		return bs.Named
	}
	return nil
}

// importedTagUnknown is the tag pair emitted for imported types without
// IMPORT_TAG information.
var importedTagUnknown = [2]string{"-1 /*imported*/", "-1 /*imported*/"}

// GetTag returns the effective tag of a type: its own tag when present,
// otherwise the universal tag of the variant.
func (r *Registry) GetTag(t ast.Type) (cls, num string) {
	if b := t.Base(); b.Tag != nil {
		return b.Tag.Class.BerClass(), b.Tag.Num
	}
	return r.GetTTag(t)
}

// GetTTag returns the universal tag of a variant. For a type reference it
// follows the referenced type; imported references fall back to the
// IMPORT_TAG conformance table.
func (r *Registry) GetTTag(t ast.Type) (cls, num string) {
	switch t := t.(type) {
	case *ast.TypeRef:
		e, ok := r.Types[t.Val]
		if !ok {
			return "BER_CLASS_unknown", "TAG_unknown"
		}
		if e.Import != "" {
			if !e.HasTTag {
				if cls, num, ok := r.Conform.UseTag(t.Val); ok {
					e.TTag = [2]string{cls, num}
				} else {
					r.Log.Warnf("missing tag information for imported type %s from %s (%s)", t.Val, e.Import, e.Proto)
					e.TTag = importedTagUnknown
				}
				e.HasTTag = true
			}
			return e.TTag[0], e.TTag[1]
		}
		return r.GetTag(e.Val)
	case *ast.Boolean:
		return "BER_CLASS_UNI", "BER_UNI_TAG_BOOLEAN"
	case *ast.Integer:
		return "BER_CLASS_UNI", "BER_UNI_TAG_INTEGER"
	case *ast.Enumerated:
		return "BER_CLASS_UNI", "BER_UNI_TAG_ENUMERATED"
	case *ast.Null:
		return "BER_CLASS_UNI", "BER_UNI_TAG_NULL"
	case *ast.ObjectIdentifier:
		return "BER_CLASS_UNI", "BER_UNI_TAG_OID"
	case *ast.OctetString:
		return "BER_CLASS_UNI", "BER_UNI_TAG_OCTETSTRING"
	case *ast.BitString:
		return "BER_CLASS_UNI", "BER_UNI_TAG_BITSTRING"
	case *ast.Sequence:
		return "BER_CLASS_UNI", "BER_UNI_TAG_SEQUENCE"
	case *ast.SequenceOf:
		return "BER_CLASS_UNI", "BER_UNI_TAG_SEQUENCE"
	case *ast.Set:
		return "BER_CLASS_UNI", "BER_UNI_TAG_SET"
	case *ast.SetOf:
		return "BER_CLASS_UNI", "BER_UNI_TAG_SET"
	case *ast.CharString:
		switch t.Kind {
		case ast.T61String:
			return "BER_CLASS_UNI", "BER_UNI_TAG_Teletext"
		case ast.ISO646String:
			return "BER_CLASS_UNI", "BER_UNI_TAG_VisibleString"
		}
		return "BER_CLASS_UNI", "BER_UNI_TAG_" + t.Kind.String()
	case *ast.Choice:
		alts := append(append([]ast.Type{}, t.Alts...), t.Ext...)
		cls := "-1/*choice*/"
		if len(alts) > 0 {
			cls, _ = r.GetTag(alts[0])
			for _, a := range alts {
				if c, _ := r.GetTag(a); c != cls {
					cls = "-1/*choice*/"
					break
				}
			}
		}
		return cls, "-1/*choice*/"
	}
	return "BER_CLASS_unknown", "TAG_unknown"
}

// IndetermTag reports whether the BER decoder cannot check the type's tag
// up front: an untagged CHOICE, directly or through references.
func (r *Registry) IndetermTag(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.TypeRef:
		e, ok := r.Types[t.Val]
		if !ok || e.Import != "" || e.Val == nil {
			return false
		}
		return r.IndetermTag(e.Val)
	case *ast.Choice:
		return !t.Base().HasOwnTag()
	}
	return false
}

// SizeConstr returns the (min, max, ext) triple for a size-constrained
// type; (-1, -1, FALSE) when no usable size constraint exists.
func SizeConstr(t ast.Type) (minv, maxv, ext string) {
	minv, maxv, ext = "-1", "-1", "FALSE"
	c := t.Base().Constraint
	if mn, mx, e, ok := c.SizeBounds(); ok {
		minv, maxv = mn, mx
		if e {
			ext = "TRUE"
		}
	}
	return minv, maxv, ext
}
