// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

// ConstraintKind selects the constraint variant. All kinds parse; only
// Size and ValueRange/SingleValue influence code generation.
type ConstraintKind int

const (
	SingleValue ConstraintKind = iota
	ValueRange
	Size
	From // permitted alphabet
	Pattern
	ContainedSubtype
	WithComponent
	WithComponents
	UserDefined // CONSTRAINED BY { ... }
	Intersection
)

var constraintKindNames = [...]string{
	SingleValue:      "SingleValue",
	ValueRange:       "ValueRange",
	Size:             "Size",
	From:             "From",
	Pattern:          "Pattern",
	ContainedSubtype: "ContainedSubtype",
	WithComponent:    "WithComponent",
	WithComponents:   "WithComponents",
	UserDefined:      "UserDefined",
	Intersection:     "Intersection",
}

func (k ConstraintKind) String() string { return constraintKindNames[k] }

// Constraint is one parsed constraint. The payload fields used depend on
// Kind:
//
//	SingleValue       Value
//	ValueRange        Lo, Hi (nil endpoint means MIN/MAX), LoExcl, HiExcl
//	Size              Sub (a SingleValue or ValueRange)
//	From, Pattern     Sub or Text
//	ContainedSubtype  Of
//	UserDefined       Text
//	Intersection      Subs
//
// Ext records a trailing extension marker "...".
type Constraint struct {
	Kind   ConstraintKind
	Value  Value
	Lo, Hi Value
	LoExcl bool
	HiExcl bool
	Ext    bool
	Sub    *Constraint
	Subs   []*Constraint
	Of     Type
	Text   string
}

// SizeBounds unwraps a SIZE constraint whose subtype is a single value or
// value range and reports its bounds as source text along with the
// extensibility marker. ok is false for any other constraint shape; the
// caller falls back to (-1, -1, FALSE).
func (c *Constraint) SizeBounds() (minv, maxv string, ext, ok bool) {
	if c == nil || c.Kind != Size || c.Sub == nil {
		return "", "", false, false
	}
	return c.Sub.RangeBounds()
}

// RangeBounds reports the bounds of a SingleValue or ValueRange constraint
// as source text.
func (c *Constraint) RangeBounds() (minv, maxv string, ext, ok bool) {
	switch c.Kind {
	case SingleValue:
		s := ValueText(c.Value)
		return s, s, c.Ext, true
	case ValueRange:
		return endpointText(c.Lo, "MIN"), endpointText(c.Hi, "MAX"), c.Ext, true
	}
	return "", "", false, false
}

func endpointText(v Value, open string) string {
	if v == nil {
		return open
	}
	return ValueText(v)
}

// ValueText renders a value variant as constraint-bound source text.
func ValueText(v Value) string {
	switch v := v.(type) {
	case *Number:
		return v.Text
	case *Ident:
		return v.Name
	case *Bool:
		if v.Val {
			return "TRUE"
		}
		return "FALSE"
	case *Str:
		return v.Text
	}
	return ""
}
