// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package emit renders the resolved registry as the C fragment files of a
// protocol dissector: header-field handles and registration rows, subtree
// handles, value-string tables, per-element tables, and one dissector
// function per wire-named type, parameterised by encoding (BER or PER)
// and API generation (legacy or new). Conformance FN_HDR, FN_FTR, and
// FN_BODY text is spliced at its hook points, and the export surfaces are
// written on request.
package emit
