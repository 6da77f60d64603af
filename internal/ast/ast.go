// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

// TagClass is the class of an ASN.1 tag.
type TagClass int

const (
	ClassContext TagClass = iota // default when the class is omitted
	ClassUniversal
	ClassApplication
	ClassPrivate
)

func (c TagClass) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassPrivate:
		return "PRIVATE"
	}
	return "CONTEXT"
}

// BerClass returns the runtime's name for the tag class.
func (c TagClass) BerClass() string {
	switch c {
	case ClassUniversal:
		return "BER_CLASS_UNI"
	case ClassApplication:
		return "BER_CLASS_APP"
	case ClassPrivate:
		return "BER_CLASS_PRI"
	}
	return "BER_CLASS_CON"
}

// TagMode is how a tagged type encodes its inner type.
type TagMode int

const (
	ModeDefault TagMode = iota // module default applies
	ModeImplicit
	ModeExplicit
)

func (m TagMode) String() string {
	switch m {
	case ModeImplicit:
		return "IMPLICIT"
	case ModeExplicit:
		return "EXPLICIT"
	}
	return "DEFAULT"
}

// Tag is an explicit [class number] tag attached to a type.
type Tag struct {
	Class TagClass
	Num   string
	Mode  TagMode
}

// Type is the closed set of ASN.1 type variants. Every variant embeds
// TypeBase.
type Type interface {
	Base() *TypeBase
}

// TypeBase carries the attributes shared by every type variant. The parser
// sets FieldName when the type appears as a named element of a constructed
// type, attaches a Tag when a [n] production wraps the type, and merges
// constraints into Constraint.
type TypeBase struct {
	FieldName  string
	Tag        *Tag
	Constraint *Constraint
}

func (b *TypeBase) Base() *TypeBase { return b }

// IsNamed returns true when the type is a named field of its parent.
func (b *TypeBase) IsNamed() bool { return b.FieldName != "" }

func (b *TypeBase) HasConstraint() bool { return b.Constraint != nil }

func (b *TypeBase) HasOwnTag() bool { return b.Tag != nil }

func (b *TypeBase) HasImplicitTag() bool {
	return b.Tag != nil && b.Tag.Mode == ModeImplicit
}

// SetTag attaches a tag built by the tagged-type production.
func (b *TypeBase) SetTag(t *Tag) { b.Tag = t }

// AddConstraint merges a constraint into the type. A second constraint
// folds both into an Intersection.
func (b *TypeBase) AddConstraint(c *Constraint) {
	if b.Constraint == nil {
		b.Constraint = c
		return
	}
	b.Constraint = &Constraint{Kind: Intersection, Subs: []*Constraint{b.Constraint, c}}
}
