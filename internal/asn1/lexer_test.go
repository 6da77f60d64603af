// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package asn1_test

import (
	"errors"
	"testing"

	"github.com/playbymail/asn2eth/internal/asn1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []asn1.Token) []asn1.Kind {
	var out []asn1.Kind
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokensPunctuators(t *testing.T) {
	toks, err := asn1.Tokens([]byte("::= .. ... { } < , . ( ) [ ] - : ;"))
	require.NoError(t, err)
	assert.Equal(t, []asn1.Kind{
		asn1.Assignment, asn1.Range, asn1.Ellipsis,
		asn1.LBrace, asn1.RBrace, asn1.LT, asn1.Comma, asn1.Dot,
		asn1.LParen, asn1.RParen, asn1.LBrack, asn1.RBrack,
		asn1.Minus, asn1.Colon, asn1.Semicolon, asn1.EOF,
	}, kinds(toks))
}

func TestTokensKeywordsAndIdents(t *testing.T) {
	toks, err := asn1.Tokens([]byte("SEQUENCE OF Foo-Bar fooBar IA5String PLUS-INFINITY GeneralizedTime"))
	require.NoError(t, err)
	require.Len(t, toks, 8)
	assert.Equal(t, asn1.KwSequence, toks[0].Kind)
	assert.Equal(t, asn1.KwOf, toks[1].Kind)
	assert.Equal(t, asn1.UCaseIdent, toks[2].Kind)
	assert.Equal(t, "Foo-Bar", toks[2].Text)
	assert.Equal(t, asn1.LCaseIdent, toks[3].Kind)
	assert.Equal(t, "fooBar", toks[3].Text)
	assert.Equal(t, asn1.KwIA5String, toks[4].Kind)
	assert.Equal(t, asn1.KwPlusInfinity, toks[5].Kind)
	assert.Equal(t, asn1.KwGeneralizedTime, toks[6].Kind)
}

func TestTokensLiterals(t *testing.T) {
	toks, err := asn1.Tokens([]byte(`0 42 '0101'B 'DEADbeef'H "say ""hi"" now"`))
	require.NoError(t, err)
	require.Len(t, toks, 6)
	assert.Equal(t, asn1.Number, toks[0].Kind)
	assert.Equal(t, "0", toks[0].Text)
	assert.Equal(t, asn1.Number, toks[1].Kind)
	assert.Equal(t, "42", toks[1].Text)
	assert.Equal(t, asn1.BString, toks[2].Kind)
	assert.Equal(t, "'0101'B", toks[2].Text)
	assert.Equal(t, asn1.HString, toks[3].Kind)
	assert.Equal(t, asn1.QString, toks[4].Kind)
	assert.Equal(t, `"say ""hi"" now"`, toks[4].Text)
}

func TestTokensComments(t *testing.T) {
	src := []byte("Age -- a comment -- ::= INTEGER -- to end of line\nBool ::= BOOLEAN\n")
	toks, err := asn1.Tokens(src)
	require.NoError(t, err)
	assert.Equal(t, []asn1.Kind{
		asn1.UCaseIdent, asn1.Assignment, asn1.KwInteger,
		asn1.UCaseIdent, asn1.Assignment, asn1.KwBoolean, asn1.EOF,
	}, kinds(toks), "comments must never appear as tokens")
}

func TestTokensPyquote(t *testing.T) {
	toks, err := asn1.Tokens([]byte("--PYQUOTE  import foo --\nAge ::= INTEGER"))
	require.NoError(t, err)
	require.Equal(t, asn1.PyQuote, toks[0].Kind)
	assert.Equal(t, "import foo ", toks[0].Text)
}

func TestTokensLineNumbers(t *testing.T) {
	toks, err := asn1.Tokens([]byte("A\n\nB\nC"))
	require.NoError(t, err)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 3, toks[1].Line)
	assert.Equal(t, 4, toks[2].Line)
}

func TestLexErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"unrecognised character", "Age @ INTEGER"},
		{"unterminated quoted string", `Name ::= "never closed`},
		{"bad binary string", "'012'B"},
		{"bad hex string", "'XYZ'H"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := asn1.Tokens([]byte(tc.src))
			var lexErr *asn1.LexError
			require.Error(t, err)
			assert.True(t, errors.As(err, &lexErr), "want LexError, got %T", err)
		})
	}
}
