// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

import (
	"fmt"
	"strings"
)

// Format renders a module back to ASN.1 notation. The output is not a
// byte-for-byte copy of the input, but reparsing it yields a structurally
// equal tree.
func Format(m *Module) string {
	var sb strings.Builder
	sb.WriteString(m.Ident)
	if m.OID != nil {
		sb.WriteString(" ")
		sb.WriteString(formatOIDValue(m.OID))
	}
	sb.WriteString(" DEFINITIONS ")
	if m.Automatic {
		sb.WriteString("AUTOMATIC TAGS ")
	} else if m.TagDefault == ModeImplicit {
		sb.WriteString("IMPLICIT TAGS ")
	} else if m.TagDefault == ModeExplicit {
		sb.WriteString("EXPLICIT TAGS ")
	}
	sb.WriteString("::= BEGIN\n")
	if b := m.Body; b != nil {
		if b.ExportsAll {
			sb.WriteString("EXPORTS ALL;\n")
		} else if len(b.Exports) > 0 {
			sb.WriteString("EXPORTS " + strings.Join(b.Exports, ", ") + ";\n")
		}
		if len(b.Imports) > 0 {
			sb.WriteString("IMPORTS\n")
			for _, im := range b.Imports {
				var names []string
				for _, s := range im.Symbols {
					names = append(names, s.Name)
				}
				sb.WriteString("  " + strings.Join(names, ", ") + " FROM " + im.Module + "\n")
			}
			sb.WriteString(";\n")
		}
		for _, a := range b.Assignments {
			switch a := a.(type) {
			case *TypeAssign:
				sb.WriteString(fmt.Sprintf("%s ::= %s\n", a.Name, FormatType(a.Typ)))
			case *ValueAssign:
				sb.WriteString(fmt.Sprintf("%s %s ::= %s\n", a.Ident, FormatType(a.Typ), FormatValue(a.Val)))
			case *PyQuoteText:
				sb.WriteString("--PYQUOTE " + a.Text + "\n")
			}
		}
	}
	sb.WriteString("END\n")
	return sb.String()
}

// FormatType renders one type variant, including its tag and constraint.
func FormatType(t Type) string {
	b := t.Base()
	var sb strings.Builder
	if b.Tag != nil {
		sb.WriteString("[")
		if b.Tag.Class != ClassContext {
			sb.WriteString(b.Tag.Class.String() + " ")
		}
		sb.WriteString(b.Tag.Num + "] ")
		if b.Tag.Mode != ModeDefault {
			sb.WriteString(b.Tag.Mode.String() + " ")
		}
	}
	// a SEQUENCE OF / SET OF constraint goes before OF; after the item type
	// it would bind to the item
	if b.Constraint != nil {
		switch o := t.(type) {
		case *SequenceOf:
			sb.WriteString("SEQUENCE " + formatConstraint(b.Constraint) + " OF " + formatItemType(o.Item))
			return sb.String()
		case *SetOf:
			sb.WriteString("SET " + formatConstraint(b.Constraint) + " OF " + formatItemType(o.Item))
			return sb.String()
		}
	}
	sb.WriteString(formatBareType(t))
	if b.Constraint != nil {
		sb.WriteString(" " + formatConstraint(b.Constraint))
	}
	return sb.String()
}

func formatBareType(t Type) string {
	switch t := t.(type) {
	case *TypeRef:
		if t.Module != "" {
			return t.Module + "." + t.Val
		}
		return t.Val
	case *Boolean:
		return "BOOLEAN"
	case *Integer:
		if len(t.Named) > 0 {
			return "INTEGER {" + formatNamedNumbers(t.Named) + "}"
		}
		return "INTEGER"
	case *Enumerated:
		s := "ENUMERATED {" + formatNamedNumbers(t.Items)
		if t.HasExt {
			s += ", ..."
			if len(t.Ext) > 0 {
				s += "," + formatNamedNumbers(t.Ext)
			}
		}
		return s + "}"
	case *Real:
		return "REAL"
	case *Null:
		return "NULL"
	case *ObjectIdentifier:
		return "OBJECT IDENTIFIER"
	case *OctetString:
		return "OCTET STRING"
	case *BitString:
		if len(t.Named) > 0 {
			return "BIT STRING {" + formatNamedNumbers(t.Named) + "}"
		}
		return "BIT STRING"
	case *CharString:
		if t.Kind == UnrestrictedString {
			return "CHARACTER STRING"
		}
		return t.Kind.String()
	case *Sequence:
		return "SEQUENCE {" + formatElements(t.Elements, t.Ext, t.HasExt) + "}"
	case *Set:
		return "SET {" + formatElements(t.Elements, t.Ext, t.HasExt) + "}"
	case *Choice:
		return "CHOICE {" + formatAlts(t.Alts, t.Ext, t.HasExt) + "}"
	case *SequenceOf:
		return "SEQUENCE OF " + formatItemType(t.Item)
	case *SetOf:
		return "SET OF " + formatItemType(t.Item)
	case *Any:
		if t.DefinedBy != "" {
			return "ANY DEFINED BY " + t.DefinedBy
		}
		return "ANY"
	case *Selection:
		return t.Ident + " < " + FormatType(t.Of)
	}
	return "-- ? --"
}

// formatItemType renders the inner type of a SEQUENCE OF / SET OF. A named
// item renders as "name Type".
func formatItemType(t Type) string {
	if t.Base().IsNamed() {
		return t.Base().FieldName + " " + FormatType(t)
	}
	return FormatType(t)
}

func formatNamedNumbers(nums []NamedNumber) string {
	var parts []string
	for _, n := range nums {
		if n.Val != "" {
			parts = append(parts, fmt.Sprintf(" %s(%s)", n.Ident, n.Val))
		} else {
			parts = append(parts, " "+n.Ident)
		}
	}
	return strings.Join(parts, ",")
}

func formatElements(elts, ext []*Element, hasExt bool) string {
	var parts []string
	for _, e := range elts {
		parts = append(parts, formatElement(e))
	}
	if hasExt {
		parts = append(parts, " ...")
		for _, e := range ext {
			parts = append(parts, formatElement(e))
		}
	}
	return strings.Join(parts, ",")
}

func formatElement(e *Element) string {
	s := " " + e.Val.Base().FieldName + " " + FormatType(e.Val)
	if e.Optional {
		s += " OPTIONAL"
	} else if e.Default != nil {
		s += " DEFAULT " + FormatValue(e.Default)
	}
	return s
}

func formatAlts(alts, ext []Type, hasExt bool) string {
	var parts []string
	for _, a := range alts {
		parts = append(parts, " "+a.Base().FieldName+" "+FormatType(a))
	}
	if hasExt {
		parts = append(parts, " ...")
		for _, a := range ext {
			parts = append(parts, " "+a.Base().FieldName+" "+FormatType(a))
		}
	}
	return strings.Join(parts, ",")
}

// FormatValue renders one value variant.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case *ObjectIdentifierValue:
		return formatOIDValue(v)
	default:
		return ValueText(v)
	}
}

func formatOIDValue(v *ObjectIdentifierValue) string {
	var parts []string
	for _, c := range v.Components {
		switch {
		case c.Name != "" && c.HasNumber:
			parts = append(parts, fmt.Sprintf("%s(%s)", c.Name, c.Number))
		case c.Name != "":
			parts = append(parts, c.Name)
		default:
			parts = append(parts, c.Number)
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func formatConstraint(c *Constraint) string {
	switch c.Kind {
	case Intersection:
		// consecutive constraint groups, which the parser folds back into
		// an Intersection
		var parts []string
		for _, s := range c.Subs {
			parts = append(parts, formatConstraint(s))
		}
		return strings.Join(parts, " ")
	default:
		return "(" + formatConstraintBody(c) + ")"
	}
}

func formatConstraintBody(c *Constraint) string {
	var s string
	switch c.Kind {
	case SingleValue:
		s = ValueText(c.Value)
	case ValueRange:
		lo, hi := endpointText(c.Lo, "MIN"), endpointText(c.Hi, "MAX")
		if c.LoExcl {
			lo += "<"
		}
		if c.HiExcl {
			hi = "<" + hi
		}
		s = lo + ".." + hi
	case Size:
		s = "SIZE (" + formatConstraintBody(c.Sub) + ")"
	case From:
		s = "FROM (" + formatConstraintBody(c.Sub) + ")"
	case Pattern:
		s = "PATTERN " + c.Text
	case ContainedSubtype:
		s = "INCLUDES " + FormatType(c.Of)
	case UserDefined:
		s = "CONSTRAINED BY {" + c.Text + "}"
	case WithComponent:
		s = "WITH COMPONENT (" + formatConstraintBody(c.Sub) + ")"
	case WithComponents:
		s = "WITH COMPONENTS {...}"
	}
	if c.Ext {
		s += ", ..."
	}
	return s
}
