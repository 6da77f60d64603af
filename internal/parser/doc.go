// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package parser builds the abstract syntax tree for one ASN.1 module from
// the X.680/682/683 notation. The grammar subset the compiler accepts is
// LL-friendly, so the parser is hand-written recursive descent over the
// token stream. Parameterised definitions and references (X.683) are
// accepted but collapsed by name-mangling; they are never instantiated.
package parser
