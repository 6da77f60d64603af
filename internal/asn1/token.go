// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asn1

import "fmt"

// Kind identifies a lexical item from X.680 clause 11.
type Kind int

const (
	EOF Kind = iota

	// punctuators
	Assignment // ::=
	Range      // ..
	Ellipsis   // ...
	LBrace
	RBrace
	LT
	Comma
	Dot
	LParen
	RParen
	LBrack
	RBrack
	Minus
	Colon
	Semicolon

	// literals and identifiers
	BString
	HString
	QString
	Number
	UCaseIdent
	LCaseIdent
	PyQuote

	// reserved words
	KwTags
	KwBoolean
	KwInteger
	KwBit
	KwCharacter
	KwString
	KwOctet
	KwNull
	KwSequence
	KwOf
	KwSet
	KwImplicit
	KwChoice
	KwAny
	KwOptional
	KwDefault
	KwComponents
	KwUniversal
	KwApplication
	KwPrivate
	KwTrue
	KwFalse
	KwBegin
	KwEnd
	KwDefinitions
	KwExplicit
	KwEnumerated
	KwExports
	KwImports
	KwReal
	KwIncludes
	KwMin
	KwMax
	KwSize
	KwFrom
	KwPattern
	KwWith
	KwComponent
	KwPresent
	KwAbsent
	KwDefined
	KwConstrained
	KwBy
	KwPlusInfinity
	KwMinusInfinity
	KwGeneralizedTime
	KwUTCTime
	KwObjectDescriptor
	KwAutomatic
	KwObject
	KwIdentifier

	// the thirteen restricted character string keywords
	KwBMPString
	KwGeneralString
	KwGraphicString
	KwIA5String
	KwISO646String
	KwNumericString
	KwPrintableString
	KwTeletexString
	KwT61String
	KwUniversalString
	KwUTF8String
	KwVideotexString
	KwVisibleString
)

// reservedWords maps X.680 11.27 reserved words to their token kind.
// All keys start with an upper-case letter, so only UCASE identifiers
// are looked up here.
var reservedWords = map[string]Kind{
	"TAGS":             KwTags,
	"BOOLEAN":          KwBoolean,
	"INTEGER":          KwInteger,
	"BIT":              KwBit,
	"CHARACTER":        KwCharacter,
	"STRING":           KwString,
	"OCTET":            KwOctet,
	"NULL":             KwNull,
	"SEQUENCE":         KwSequence,
	"OF":               KwOf,
	"SET":              KwSet,
	"IMPLICIT":         KwImplicit,
	"CHOICE":           KwChoice,
	"ANY":              KwAny,
	"OPTIONAL":         KwOptional,
	"DEFAULT":          KwDefault,
	"COMPONENTS":       KwComponents,
	"UNIVERSAL":        KwUniversal,
	"APPLICATION":      KwApplication,
	"PRIVATE":          KwPrivate,
	"TRUE":             KwTrue,
	"FALSE":            KwFalse,
	"BEGIN":            KwBegin,
	"END":              KwEnd,
	"DEFINITIONS":      KwDefinitions,
	"EXPLICIT":         KwExplicit,
	"ENUMERATED":       KwEnumerated,
	"EXPORTS":          KwExports,
	"IMPORTS":          KwImports,
	"REAL":             KwReal,
	"INCLUDES":         KwIncludes,
	"MIN":              KwMin,
	"MAX":              KwMax,
	"SIZE":             KwSize,
	"FROM":             KwFrom,
	"PATTERN":          KwPattern,
	"WITH":             KwWith,
	"COMPONENT":        KwComponent,
	"PRESENT":          KwPresent,
	"ABSENT":           KwAbsent,
	"DEFINED":          KwDefined,
	"CONSTRAINED":      KwConstrained,
	"BY":               KwBy,
	"PLUS-INFINITY":    KwPlusInfinity,
	"MINUS-INFINITY":   KwMinusInfinity,
	"GeneralizedTime":  KwGeneralizedTime,
	"UTCTime":          KwUTCTime,
	"ObjectDescriptor": KwObjectDescriptor,
	"AUTOMATIC":        KwAutomatic,
	"OBJECT":           KwObject,
	"IDENTIFIER":       KwIdentifier,
	"BMPString":        KwBMPString,
	"GeneralString":    KwGeneralString,
	"GraphicString":    KwGraphicString,
	"IA5String":        KwIA5String,
	"ISO646String":     KwISO646String,
	"NumericString":    KwNumericString,
	"PrintableString":  KwPrintableString,
	"TeletexString":    KwTeletexString,
	"T61String":        KwT61String,
	"UniversalString":  KwUniversalString,
	"UTF8String":       KwUTF8String,
	"VideotexString":   KwVideotexString,
	"VisibleString":    KwVisibleString,
}

var kindNames = map[Kind]string{
	EOF:                "EOF",
	Assignment:         "::=",
	Range:              "..",
	Ellipsis:           "...",
	LBrace:             "{",
	RBrace:             "}",
	LT:                 "<",
	Comma:              ",",
	Dot:                ".",
	LParen:             "(",
	RParen:             ")",
	LBrack:             "[",
	RBrack:             "]",
	Minus:              "-",
	Colon:              ":",
	Semicolon:          ";",
	BString:            "BSTRING",
	HString:            "HSTRING",
	QString:            "QSTRING",
	Number:             "NUMBER",
	UCaseIdent:         "UCASE_IDENT",
	LCaseIdent:         "LCASE_IDENT",
	PyQuote:            "PYQUOTE",
	KwGeneralizedTime:  "GeneralizedTime",
	KwUTCTime:          "UTCTime",
	KwObjectDescriptor: "ObjectDescriptor",
}

func init() {
	for w, k := range reservedWords {
		if _, ok := kindNames[k]; !ok {
			kindNames[k] = w
		}
	}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true for reserved-word token kinds.
func (k Kind) IsKeyword() bool {
	return k >= KwTags
}

// Token is one lexical item with its source line.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	switch t.Kind {
	case BString, HString, QString, Number, UCaseIdent, LCaseIdent, PyQuote:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
