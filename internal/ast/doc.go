// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package ast defines the abstract syntax tree for ASN.1 modules as parsed
// from X.680/682/683 notation. Each syntactic category is a closed set of
// variants: types, values, and constraints. Variants share a TypeBase that
// carries the optional field name, tag, and constraint. Consumers dispatch
// with type switches; there is no behavioral hierarchy.
package ast
