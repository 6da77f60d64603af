// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

// TypeRef is a reference to a type by name. Module is set for external
// references (Module.Name).
type TypeRef struct {
	TypeBase
	Val    string
	Module string
}

// Boolean is the BOOLEAN type.
type Boolean struct {
	TypeBase
}

// NamedNumber is one name in a named-number or named-bit list, or one
// enumeration item. Val is empty for enumeration items without an explicit
// number.
type NamedNumber struct {
	Ident string
	Val   string
}

// Integer is the INTEGER type with an optional named-number list.
type Integer struct {
	TypeBase
	Named []NamedNumber
}

// Enumerated is the ENUMERATED type. HasExt records a trailing "..." even
// when the extension list is empty.
type Enumerated struct {
	TypeBase
	Items  []NamedNumber
	Ext    []NamedNumber
	HasExt bool
}

// Real is the REAL type.
type Real struct {
	TypeBase
}

// Null is the NULL type.
type Null struct {
	TypeBase
}

// ObjectIdentifier is the OBJECT IDENTIFIER type.
type ObjectIdentifier struct {
	TypeBase
}

// OctetString is the OCTET STRING type.
type OctetString struct {
	TypeBase
}

// BitString is the BIT STRING type with an optional named-bit list.
type BitString struct {
	TypeBase
	Named []NamedNumber
}

// CharKind selects one of the character-string variants.
type CharKind int

const (
	BMPString CharKind = iota
	GeneralString
	GraphicString
	IA5String
	ISO646String
	NumericString
	PrintableString
	TeletexString
	T61String
	UniversalString
	UTF8String
	VideotexString
	VisibleString
	GeneralizedTime
	UTCTime
	ObjectDescriptor
	UnrestrictedString
)

var charKindNames = [...]string{
	BMPString:          "BMPString",
	GeneralString:      "GeneralString",
	GraphicString:      "GraphicString",
	IA5String:          "IA5String",
	ISO646String:       "ISO646String",
	NumericString:      "NumericString",
	PrintableString:    "PrintableString",
	TeletexString:      "TeletexString",
	T61String:          "T61String",
	UniversalString:    "UniversalString",
	UTF8String:         "UTF8String",
	VideotexString:     "VideotexString",
	VisibleString:      "VisibleString",
	GeneralizedTime:    "GeneralizedTime",
	UTCTime:            "UTCTime",
	ObjectDescriptor:   "ObjectDescriptor",
	UnrestrictedString: "CHARACTER_STRING",
}

func (k CharKind) String() string { return charKindNames[k] }

// CharString is a character-string type: the thirteen restricted variants,
// the three useful types, or the unrestricted CHARACTER STRING.
type CharString struct {
	TypeBase
	Kind CharKind
}

// Element is one member of a SEQUENCE or SET body.
type Element struct {
	Val      Type
	Optional bool
	Default  Value
}

// Sequence is the SEQUENCE type. Ext holds elements after the "..." marker.
type Sequence struct {
	TypeBase
	Elements []*Element
	Ext      []*Element
	HasExt   bool
}

// Set is the SET type.
type Set struct {
	TypeBase
	Elements []*Element
	Ext      []*Element
	HasExt   bool
}

// Choice is the CHOICE type. Every alternative is a named type.
type Choice struct {
	TypeBase
	Alts   []Type
	Ext    []Type
	HasExt bool
}

// SequenceOf is the SEQUENCE OF type.
type SequenceOf struct {
	TypeBase
	Item Type
}

// SetOf is the SET OF type.
type SetOf struct {
	TypeBase
	Item Type
}

// Any is the ANY type, optionally ANY DEFINED BY field.
type Any struct {
	TypeBase
	DefinedBy string
}

// Selection is a selection type "identifier < Type". It parses but has no
// code-generation effect beyond its structure.
type Selection struct {
	TypeBase
	Ident string
	Of    Type
}

// VariantName names the variant for diagnostics and placeholder type names.
func VariantName(t Type) string {
	switch t := t.(type) {
	case *TypeRef:
		return "Type_Ref"
	case *Boolean:
		return "BOOLEAN"
	case *Integer:
		return "INTEGER"
	case *Enumerated:
		return "ENUMERATED"
	case *Real:
		return "REAL"
	case *Null:
		return "NULL"
	case *ObjectIdentifier:
		return "OBJECT_IDENTIFIER"
	case *OctetString:
		return "OCTET_STRING"
	case *BitString:
		return "BIT_STRING"
	case *CharString:
		return t.Kind.String()
	case *Sequence:
		return "SEQUENCE"
	case *Set:
		return "SET"
	case *Choice:
		return "CHOICE"
	case *SequenceOf:
		return "SEQUENCE_OF"
	case *SetOf:
		return "SET_OF"
	case *Any:
		return "ANY"
	case *Selection:
		return "Selection"
	}
	return "Type"
}
