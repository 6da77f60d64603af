// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"fmt"
	"log"
	"strings"

	"github.com/playbymail/asn2eth/internal/asn1"
	"github.com/playbymail/asn2eth/internal/ast"
)

// xxxSuffix is appended to the name of every parameterised definition and
// reference so downstream stages see a plain name. Parameter lists are not
// instantiated.
const xxxSuffix = "xxx"

// ParseError is fatal: the token stream does not match the grammar.
type ParseError struct {
	Line  int
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d near %q", e.Line, e.Token)
}

// Parser consumes a token stream produced by the lexer. Each Parse call
// owns its own Parser, so repeated invocations are reentrant.
type Parser struct {
	toks  []asn1.Token
	pos   int
	debug bool
}

// Config controls parser diagnostics.
type Config struct {
	DebugLexer  bool // log every token
	DebugParser bool // log productions as they reduce
}

// Parse lexes and parses one ASN.1 module definition.
func Parse(src []byte, cfg Config) (*ast.Module, error) {
	toks, err := asn1.Tokens(src)
	if err != nil {
		return nil, err
	}
	if cfg.DebugLexer {
		for _, t := range toks {
			log.Printf("[lex] %d: %s\n", t.Line, t)
		}
	}
	p := &Parser{toks: toks, debug: cfg.DebugParser}
	m, err := p.module()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != asn1.EOF {
		return nil, p.errorf()
	}
	return m, nil
}

func (p *Parser) debugf(format string, args ...any) {
	if p.debug {
		log.Printf("[yacc] "+format, args...)
	}
}

func (p *Parser) peek() asn1.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return asn1.Token{Kind: asn1.EOF}
}

func (p *Parser) next() asn1.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) accept(k asn1.Kind) (asn1.Token, bool) {
	if p.peek().Kind == k {
		return p.next(), true
	}
	return asn1.Token{}, false
}

func (p *Parser) expect(k asn1.Kind) (asn1.Token, error) {
	if t, ok := p.accept(k); ok {
		return t, nil
	}
	return asn1.Token{}, p.errorf()
}

func (p *Parser) errorf() error {
	t := p.peek()
	return &ParseError{Line: t.Line, Token: t.String()}
}

// module parses ModuleDefinition: name, optional definitive OID,
// DEFINITIONS, tag default, "::= BEGIN body END".
func (p *Parser) module() (*ast.Module, error) {
	name, err := p.expect(asn1.UCaseIdent)
	if err != nil {
		return nil, err
	}
	m := &ast.Module{Ident: name.Text, TagDefault: ast.ModeExplicit}
	if p.peek().Kind == asn1.LBrace {
		oid, err := p.oidValue()
		if err != nil {
			return nil, err
		}
		m.OID = oid
	}
	if _, err := p.expect(asn1.KwDefinitions); err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case asn1.KwExplicit:
		p.next()
		if _, err := p.expect(asn1.KwTags); err != nil {
			return nil, err
		}
	case asn1.KwImplicit:
		p.next()
		if _, err := p.expect(asn1.KwTags); err != nil {
			return nil, err
		}
		m.TagDefault = ast.ModeImplicit
	case asn1.KwAutomatic:
		p.next()
		if _, err := p.expect(asn1.KwTags); err != nil {
			return nil, err
		}
		m.TagDefault = ast.ModeImplicit
		m.Automatic = true
	}
	if _, err := p.expect(asn1.Assignment); err != nil {
		return nil, err
	}
	if _, err := p.expect(asn1.KwBegin); err != nil {
		return nil, err
	}
	body, err := p.moduleBody()
	if err != nil {
		return nil, err
	}
	m.Body = body
	if _, err := p.expect(asn1.KwEnd); err != nil {
		return nil, err
	}
	p.debugf("module %s\n", m.Ident)
	return m, nil
}

func (p *Parser) moduleBody() (*ast.ModuleBody, error) {
	body := &ast.ModuleBody{}
	if _, ok := p.accept(asn1.KwExports); ok {
		if err := p.exports(body); err != nil {
			return nil, err
		}
	}
	if _, ok := p.accept(asn1.KwImports); ok {
		if err := p.imports(body); err != nil {
			return nil, err
		}
	}
	for {
		switch p.peek().Kind {
		case asn1.KwEnd, asn1.EOF:
			return body, nil
		case asn1.PyQuote:
			t := p.next()
			body.Assignments = append(body.Assignments, &ast.PyQuoteText{Text: t.Text})
		default:
			a, err := p.assignment()
			if err != nil {
				return nil, err
			}
			body.Assignments = append(body.Assignments, a)
		}
	}
}

func (p *Parser) exports(body *ast.ModuleBody) error {
	if t := p.peek(); t.Kind == asn1.UCaseIdent && t.Text == "ALL" && p.peekAt(1) == asn1.Semicolon {
		p.next()
		body.ExportsAll = true
	} else {
		for p.peek().Kind != asn1.Semicolon {
			s, err := p.symbol()
			if err != nil {
				return err
			}
			body.Exports = append(body.Exports, s.Name)
			if _, ok := p.accept(asn1.Comma); !ok {
				break
			}
		}
	}
	_, err := p.expect(asn1.Semicolon)
	return err
}

func (p *Parser) imports(body *ast.ModuleBody) error {
	for p.peek().Kind != asn1.Semicolon {
		sfm := &ast.SymbolsFromModule{}
		for {
			s, err := p.symbol()
			if err != nil {
				return err
			}
			sfm.Symbols = append(sfm.Symbols, s)
			if _, ok := p.accept(asn1.Comma); !ok {
				break
			}
		}
		if _, err := p.expect(asn1.KwFrom); err != nil {
			return err
		}
		mod, err := p.expect(asn1.UCaseIdent)
		if err != nil {
			return err
		}
		sfm.Module = mod.Text
		if p.peek().Kind == asn1.LBrace {
			if _, err := p.oidValue(); err != nil {
				return err
			}
		}
		body.Imports = append(body.Imports, sfm)
	}
	_, err := p.expect(asn1.Semicolon)
	return err
}

// symbol is one name in an imports or exports list. A trailing "{}"
// parameter list marks a parameterised reference and mangles the name.
func (p *Parser) symbol() (ast.Symbol, error) {
	t := p.next()
	switch t.Kind {
	case asn1.UCaseIdent:
		name := t.Text
		if p.peek().Kind == asn1.LBrace {
			if err := p.skipBraces(); err != nil {
				return ast.Symbol{}, err
			}
			name += xxxSuffix
		}
		return ast.Symbol{Name: name, IsType: true}, nil
	case asn1.LCaseIdent:
		return ast.Symbol{Name: t.Text}, nil
	}
	p.pos--
	return ast.Symbol{}, p.errorf()
}

// assignment parses "Name ::= Type" or "name Type ::= Value". A
// parameter list after the name is skipped and the name mangled.
func (p *Parser) assignment() (ast.Assignment, error) {
	switch p.peek().Kind {
	case asn1.UCaseIdent:
		t := p.next()
		name := t.Text
		if p.peek().Kind == asn1.LBrace {
			if err := p.skipBraces(); err != nil {
				return nil, err
			}
			name += xxxSuffix
		}
		if _, err := p.expect(asn1.Assignment); err != nil {
			return nil, err
		}
		typ, err := p.typeNotation()
		if err != nil {
			return nil, err
		}
		p.debugf("type assignment %s\n", name)
		return &ast.TypeAssign{Name: name, Typ: typ}, nil
	case asn1.LCaseIdent:
		t := p.next()
		typ, err := p.typeNotation()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(asn1.Assignment); err != nil {
			return nil, err
		}
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		p.debugf("value assignment %s\n", t.Text)
		return &ast.ValueAssign{Ident: t.Text, Typ: typ, Val: val}, nil
	}
	return nil, p.errorf()
}

// skipBraces consumes a balanced {...} group without building a tree.
// Parameter lists of X.683 definitions are accepted but never instantiated.
func (p *Parser) skipBraces() error {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		switch p.next().Kind {
		case asn1.LBrace:
			depth++
		case asn1.RBrace:
			depth--
		case asn1.EOF:
			return p.errorf()
		}
	}
	return nil
}

// typeNotation parses Type: optional tag, optional IMPLICIT/EXPLICIT,
// the built-in or referenced type, and any trailing constraint groups.
func (p *Parser) typeNotation() (ast.Type, error) {
	var tag *ast.Tag
	if p.peek().Kind == asn1.LBrack {
		var err error
		if tag, err = p.tag(); err != nil {
			return nil, err
		}
	}
	typ, err := p.bareType()
	if err != nil {
		return nil, err
	}
	if tag != nil {
		typ.Base().SetTag(tag)
	}
	for p.peek().Kind == asn1.LParen {
		c, err := p.constraintGroup()
		if err != nil {
			return nil, err
		}
		typ.Base().AddConstraint(c)
	}
	return typ, nil
}

func (p *Parser) tag() (*ast.Tag, error) {
	if _, err := p.expect(asn1.LBrack); err != nil {
		return nil, err
	}
	tag := &ast.Tag{Class: ast.ClassContext}
	switch p.peek().Kind {
	case asn1.KwUniversal:
		p.next()
		tag.Class = ast.ClassUniversal
	case asn1.KwApplication:
		p.next()
		tag.Class = ast.ClassApplication
	case asn1.KwPrivate:
		p.next()
		tag.Class = ast.ClassPrivate
	}
	num, err := p.expect(asn1.Number)
	if err != nil {
		return nil, err
	}
	tag.Num = num.Text
	if _, err := p.expect(asn1.RBrack); err != nil {
		return nil, err
	}
	switch p.peek().Kind {
	case asn1.KwImplicit:
		p.next()
		tag.Mode = ast.ModeImplicit
	case asn1.KwExplicit:
		p.next()
		tag.Mode = ast.ModeExplicit
	}
	return tag, nil
}

func (p *Parser) bareType() (ast.Type, error) {
	t := p.peek()
	switch t.Kind {
	case asn1.KwBoolean:
		p.next()
		return &ast.Boolean{}, nil
	case asn1.KwNull:
		p.next()
		return &ast.Null{}, nil
	case asn1.KwReal:
		p.next()
		return &ast.Real{}, nil
	case asn1.KwInteger:
		p.next()
		typ := &ast.Integer{}
		if p.peek().Kind == asn1.LBrace {
			named, err := p.namedNumberList()
			if err != nil {
				return nil, err
			}
			typ.Named = named
		}
		return typ, nil
	case asn1.KwEnumerated:
		p.next()
		return p.enumerated()
	case asn1.KwBit:
		p.next()
		if _, err := p.expect(asn1.KwString); err != nil {
			return nil, err
		}
		typ := &ast.BitString{}
		if p.peek().Kind == asn1.LBrace {
			named, err := p.namedNumberList()
			if err != nil {
				return nil, err
			}
			typ.Named = named
		}
		return typ, nil
	case asn1.KwOctet:
		p.next()
		if _, err := p.expect(asn1.KwString); err != nil {
			return nil, err
		}
		return &ast.OctetString{}, nil
	case asn1.KwObject:
		p.next()
		if _, err := p.expect(asn1.KwIdentifier); err != nil {
			return nil, err
		}
		return &ast.ObjectIdentifier{}, nil
	case asn1.KwCharacter:
		p.next()
		if _, err := p.expect(asn1.KwString); err != nil {
			return nil, err
		}
		return &ast.CharString{Kind: ast.UnrestrictedString}, nil
	case asn1.KwSequence:
		p.next()
		return p.sequenceLike(true)
	case asn1.KwSet:
		p.next()
		return p.sequenceLike(false)
	case asn1.KwChoice:
		p.next()
		return p.choice()
	case asn1.KwAny:
		p.next()
		typ := &ast.Any{}
		if _, ok := p.accept(asn1.KwDefined); ok {
			if _, err := p.expect(asn1.KwBy); err != nil {
				return nil, err
			}
			id, err := p.expect(asn1.LCaseIdent)
			if err != nil {
				return nil, err
			}
			typ.DefinedBy = id.Text
		}
		return typ, nil
	case asn1.UCaseIdent:
		p.next()
		ref := &ast.TypeRef{Val: t.Text}
		if _, ok := p.accept(asn1.Dot); ok {
			inner, err := p.expect(asn1.UCaseIdent)
			if err != nil {
				return nil, err
			}
			ref.Module, ref.Val = t.Text, inner.Text
		}
		if p.peek().Kind == asn1.LBrace {
			if err := p.skipBraces(); err != nil {
				return nil, err
			}
			ref.Val += xxxSuffix
		}
		return ref, nil
	case asn1.LCaseIdent:
		// SelectionType: identifier < Type
		p.next()
		if _, err := p.expect(asn1.LT); err != nil {
			return nil, err
		}
		of, err := p.typeNotation()
		if err != nil {
			return nil, err
		}
		return &ast.Selection{Ident: t.Text, Of: of}, nil
	}
	if kind, ok := charStringKinds[t.Kind]; ok {
		p.next()
		return &ast.CharString{Kind: kind}, nil
	}
	return nil, p.errorf()
}

var charStringKinds = map[asn1.Kind]ast.CharKind{
	asn1.KwBMPString:        ast.BMPString,
	asn1.KwGeneralString:    ast.GeneralString,
	asn1.KwGraphicString:    ast.GraphicString,
	asn1.KwIA5String:        ast.IA5String,
	asn1.KwISO646String:     ast.ISO646String,
	asn1.KwNumericString:    ast.NumericString,
	asn1.KwPrintableString:  ast.PrintableString,
	asn1.KwTeletexString:    ast.TeletexString,
	asn1.KwT61String:        ast.T61String,
	asn1.KwUniversalString:  ast.UniversalString,
	asn1.KwUTF8String:       ast.UTF8String,
	asn1.KwVideotexString:   ast.VideotexString,
	asn1.KwVisibleString:    ast.VisibleString,
	asn1.KwGeneralizedTime:  ast.GeneralizedTime,
	asn1.KwUTCTime:          ast.UTCTime,
	asn1.KwObjectDescriptor: ast.ObjectDescriptor,
}

// sequenceLike parses the body after SEQUENCE or SET: either a SIZE
// constrained OF type or a component list.
func (p *Parser) sequenceLike(isSequence bool) (ast.Type, error) {
	var sizeConstr *ast.Constraint
	if p.peek().Kind == asn1.LParen {
		c, err := p.constraintGroup()
		if err != nil {
			return nil, err
		}
		sizeConstr = c
	}
	if _, ok := p.accept(asn1.KwOf); ok {
		item, err := p.ofItem()
		if err != nil {
			return nil, err
		}
		var typ ast.Type
		if isSequence {
			typ = &ast.SequenceOf{Item: item}
		} else {
			typ = &ast.SetOf{Item: item}
		}
		if sizeConstr != nil {
			typ.Base().AddConstraint(sizeConstr)
		}
		return typ, nil
	}
	if sizeConstr != nil {
		return nil, p.errorf()
	}
	elts, ext, hasExt, err := p.componentList()
	if err != nil {
		return nil, err
	}
	if isSequence {
		return &ast.Sequence{Elements: elts, Ext: ext, HasExt: hasExt}, nil
	}
	return &ast.Set{Elements: elts, Ext: ext, HasExt: hasExt}, nil
}

// ofItem parses the element type of SEQUENCE OF / SET OF, optionally named.
func (p *Parser) ofItem() (ast.Type, error) {
	var name string
	if p.peek().Kind == asn1.LCaseIdent && p.peekAt(1) != asn1.LT {
		name = p.next().Text
	}
	item, err := p.typeNotation()
	if err != nil {
		return nil, err
	}
	if name != "" {
		item.Base().FieldName = name
	}
	return item, nil
}

func (p *Parser) peekAt(n int) asn1.Kind {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n].Kind
	}
	return asn1.EOF
}

// componentList parses "{ name Type [OPTIONAL|DEFAULT v], ..., ... }".
// An empty body is valid.
func (p *Parser) componentList() (elts, ext []*ast.Element, hasExt bool, err error) {
	if _, err = p.expect(asn1.LBrace); err != nil {
		return nil, nil, false, err
	}
	if _, ok := p.accept(asn1.RBrace); ok {
		return nil, nil, false, nil
	}
	for {
		if _, ok := p.accept(asn1.Ellipsis); ok {
			hasExt = true
		} else {
			e, err := p.component()
			if err != nil {
				return nil, nil, false, err
			}
			if hasExt {
				ext = append(ext, e)
			} else {
				elts = append(elts, e)
			}
		}
		if _, ok := p.accept(asn1.Comma); ok {
			continue
		}
		break
	}
	if _, err = p.expect(asn1.RBrace); err != nil {
		return nil, nil, false, err
	}
	return elts, ext, hasExt, nil
}

func (p *Parser) component() (*ast.Element, error) {
	name, err := p.expect(asn1.LCaseIdent)
	if err != nil {
		return nil, err
	}
	typ, err := p.typeNotation()
	if err != nil {
		return nil, err
	}
	typ.Base().FieldName = name.Text
	e := &ast.Element{Val: typ}
	if _, ok := p.accept(asn1.KwOptional); ok {
		e.Optional = true
	} else if _, ok := p.accept(asn1.KwDefault); ok {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		e.Default = v
	}
	return e, nil
}

func (p *Parser) choice() (ast.Type, error) {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return nil, err
	}
	typ := &ast.Choice{}
	if _, ok := p.accept(asn1.RBrace); ok {
		return typ, nil
	}
	for {
		if _, ok := p.accept(asn1.Ellipsis); ok {
			typ.HasExt = true
		} else {
			name, err := p.expect(asn1.LCaseIdent)
			if err != nil {
				return nil, err
			}
			alt, err := p.typeNotation()
			if err != nil {
				return nil, err
			}
			alt.Base().FieldName = name.Text
			if typ.HasExt {
				typ.Ext = append(typ.Ext, alt)
			} else {
				typ.Alts = append(typ.Alts, alt)
			}
		}
		if _, ok := p.accept(asn1.Comma); ok {
			continue
		}
		break
	}
	if _, err := p.expect(asn1.RBrace); err != nil {
		return nil, err
	}
	return typ, nil
}

func (p *Parser) enumerated() (ast.Type, error) {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return nil, err
	}
	typ := &ast.Enumerated{}
	for {
		if _, ok := p.accept(asn1.Ellipsis); ok {
			typ.HasExt = true
		} else {
			item, err := p.namedNumber()
			if err != nil {
				return nil, err
			}
			if typ.HasExt {
				typ.Ext = append(typ.Ext, item)
			} else {
				typ.Items = append(typ.Items, item)
			}
		}
		if _, ok := p.accept(asn1.Comma); ok {
			continue
		}
		break
	}
	if _, err := p.expect(asn1.RBrace); err != nil {
		return nil, err
	}
	return typ, nil
}

// namedNumberList parses "{ name(value), ... }" for INTEGER and BIT STRING.
func (p *Parser) namedNumberList() ([]ast.NamedNumber, error) {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return nil, err
	}
	var named []ast.NamedNumber
	for {
		n, err := p.namedNumber()
		if err != nil {
			return nil, err
		}
		named = append(named, n)
		if _, ok := p.accept(asn1.Comma); ok {
			continue
		}
		break
	}
	if _, err := p.expect(asn1.RBrace); err != nil {
		return nil, err
	}
	return named, nil
}

func (p *Parser) namedNumber() (ast.NamedNumber, error) {
	id, err := p.expect(asn1.LCaseIdent)
	if err != nil {
		return ast.NamedNumber{}, err
	}
	n := ast.NamedNumber{Ident: id.Text}
	if _, ok := p.accept(asn1.LParen); ok {
		neg := false
		if _, ok := p.accept(asn1.Minus); ok {
			neg = true
		}
		num, err := p.expect(asn1.Number)
		if err != nil {
			return ast.NamedNumber{}, err
		}
		n.Val = num.Text
		if neg {
			n.Val = "-" + n.Val
		}
		if _, err := p.expect(asn1.RParen); err != nil {
			return ast.NamedNumber{}, err
		}
	}
	return n, nil
}

// constraintGroup parses one parenthesized constraint. A trailing ", ..."
// marks the constraint extensible.
func (p *Parser) constraintGroup() (*ast.Constraint, error) {
	if _, err := p.expect(asn1.LParen); err != nil {
		return nil, err
	}
	c, err := p.constraintSpec()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(asn1.Comma); ok {
		if _, err := p.expect(asn1.Ellipsis); err != nil {
			return nil, err
		}
		c.Ext = true
	}
	if _, err := p.expect(asn1.RParen); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) constraintSpec() (*ast.Constraint, error) {
	switch p.peek().Kind {
	case asn1.KwSize:
		p.next()
		sub, err := p.constraintGroup()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.Size, Sub: sub}, nil
	case asn1.KwFrom:
		p.next()
		sub, err := p.constraintGroup()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.From, Sub: sub}, nil
	case asn1.KwPattern:
		p.next()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.Pattern, Text: ast.ValueText(v)}, nil
	case asn1.KwIncludes:
		p.next()
		of, err := p.typeNotation()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.ContainedSubtype, Of: of}, nil
	case asn1.KwConstrained:
		p.next()
		if _, err := p.expect(asn1.KwBy); err != nil {
			return nil, err
		}
		text, err := p.braceText()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.UserDefined, Text: text}, nil
	case asn1.KwWith:
		p.next()
		if _, ok := p.accept(asn1.KwComponents); ok {
			if err := p.skipBraces(); err != nil {
				return nil, err
			}
			return &ast.Constraint{Kind: ast.WithComponents}, nil
		}
		if _, err := p.expect(asn1.KwComponent); err != nil {
			return nil, err
		}
		sub, err := p.constraintGroup()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.WithComponent, Sub: sub}, nil
	case asn1.UCaseIdent:
		// contained subtype without INCLUDES: (OtherType)
		of, err := p.typeNotation()
		if err != nil {
			return nil, err
		}
		return &ast.Constraint{Kind: ast.ContainedSubtype, Of: of}, nil
	}
	return p.valueConstraint()
}

// valueConstraint parses a single value or a value range with MIN/MAX
// endpoints and optional exclusive markers.
func (p *Parser) valueConstraint() (*ast.Constraint, error) {
	var lo ast.Value
	if _, ok := p.accept(asn1.KwMin); !ok {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		lo = v
	}
	loExcl := false
	if _, ok := p.accept(asn1.LT); ok {
		loExcl = true
	}
	if _, ok := p.accept(asn1.Range); !ok {
		if loExcl || lo == nil {
			return nil, p.errorf()
		}
		return &ast.Constraint{Kind: ast.SingleValue, Value: lo}, nil
	}
	hiExcl := false
	if _, ok := p.accept(asn1.LT); ok {
		hiExcl = true
	}
	var hi ast.Value
	if _, ok := p.accept(asn1.KwMax); !ok {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		hi = v
	}
	return &ast.Constraint{Kind: ast.ValueRange, Lo: lo, Hi: hi, LoExcl: loExcl, HiExcl: hiExcl}, nil
}

// braceText captures the raw text of a balanced {...} group.
func (p *Parser) braceText() (string, error) {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return "", err
	}
	var parts []string
	depth := 1
	for {
		t := p.next()
		switch t.Kind {
		case asn1.LBrace:
			depth++
		case asn1.RBrace:
			depth--
			if depth == 0 {
				return strings.Join(parts, " "), nil
			}
		case asn1.EOF:
			return "", p.errorf()
		}
		parts = append(parts, t.Text)
	}
}

// value parses one value notation.
func (p *Parser) value() (ast.Value, error) {
	t := p.peek()
	switch t.Kind {
	case asn1.Number:
		p.next()
		return &ast.Number{Text: t.Text}, nil
	case asn1.Minus:
		p.next()
		num, err := p.expect(asn1.Number)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Text: "-" + num.Text}, nil
	case asn1.KwTrue:
		p.next()
		return &ast.Bool{Val: true}, nil
	case asn1.KwFalse:
		p.next()
		return &ast.Bool{Val: false}, nil
	case asn1.QString, asn1.BString, asn1.HString:
		p.next()
		return &ast.Str{Text: t.Text}, nil
	case asn1.LCaseIdent:
		p.next()
		return &ast.Ident{Name: t.Text}, nil
	case asn1.LBrace:
		return p.oidValue()
	}
	return nil, p.errorf()
}

// oidValue parses "{ name name(number) number ... }".
func (p *Parser) oidValue() (*ast.ObjectIdentifierValue, error) {
	if _, err := p.expect(asn1.LBrace); err != nil {
		return nil, err
	}
	v := &ast.ObjectIdentifierValue{}
	for {
		t := p.next()
		switch t.Kind {
		case asn1.RBrace:
			return v, nil
		case asn1.Number:
			v.Components = append(v.Components, ast.OIDComponent{Number: t.Text})
		case asn1.LCaseIdent:
			c := ast.OIDComponent{Name: t.Text}
			if _, ok := p.accept(asn1.LParen); ok {
				num, err := p.expect(asn1.Number)
				if err != nil {
					return nil, err
				}
				c.Number, c.HasNumber = num.Text, true
				if _, err := p.expect(asn1.RParen); err != nil {
					return nil, err
				}
			}
			v.Components = append(v.Components, c)
		default:
			p.pos--
			return nil, p.errorf()
		}
	}
}
