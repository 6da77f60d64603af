// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package asn1 tokenises ASN.1 source per the lexical items of X.680
// clause 11: punctuators, reserved words, binary/hexadecimal/quoted
// string literals, numbers, and case-distinguished identifiers. Ordinary
// comments are discarded; comments carrying the PYQUOTE marker survive as
// pass-through tokens.
package asn1
