// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

// Module is one ModuleDefinition: name, optional definitive object
// identifier, default tagging mode, and body.
type Module struct {
	Ident      string
	OID        *ObjectIdentifierValue
	TagDefault TagMode // EXPLICIT unless the header says otherwise
	Automatic  bool    // AUTOMATIC TAGS
	Body       *ModuleBody
}

// ModuleBody holds the exports, imports, and assignment list of a module.
type ModuleBody struct {
	ExportsAll  bool
	Exports     []string
	Imports     []*SymbolsFromModule
	Assignments []Assignment
}

// SymbolsFromModule is one IMPORTS clause: symbols FROM Module.
type SymbolsFromModule struct {
	Module  string
	Symbols []Symbol
}

// Symbol is one imported or exported name. Type references begin with an
// upper-case letter.
type Symbol struct {
	Name   string
	IsType bool
}

// Assignment is a top-level binding in a module body.
type Assignment interface {
	assignmentNode()
}

// TypeAssign is TypeName ::= Type.
type TypeAssign struct {
	Name string
	Typ  Type
}

// ValueAssign is valueName Type ::= Value.
type ValueAssign struct {
	Ident string
	Typ   Type
	Val   Value
}

// PyQuoteText is a pass-through comment carried from the lexer through the
// parser. It produces no generated C output.
type PyQuoteText struct {
	Text string
}

func (*TypeAssign) assignmentNode()  {}
func (*ValueAssign) assignmentNode() {}
func (*PyQuoteText) assignmentNode() {}
