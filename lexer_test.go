package cur

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	tokens, cursors, err := Lex("test.cur", []byte(src))
	require.NoError(t, err)
	require.Equal(t, len(tokens), len(cursors), "tokens and cursors must stay parallel")
	return tokens
}

func TestLexPunctAndIdent(t *testing.T) {
	tokens := lexAll(t, "fn main ( ) { }")
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokIdent, TokIdent, TokLeftParen, TokRightParen, TokLeftCurl, TokRightCurl,
	}, kinds)
	assert.Equal(t, "fn", tokens[0].Ident)
	assert.Equal(t, "main", tokens[1].Ident)
}

func TestLexUnderscoreIsItsOwnToken(t *testing.T) {
	tokens := lexAll(t, "_ foo_bar _123")
	require.Len(t, tokens, 3)
	assert.Equal(t, TokUnderscore, tokens[0].Kind)
	assert.Equal(t, TokIdent, tokens[1].Kind)
	assert.Equal(t, "foo_bar", tokens[1].Ident)
	assert.Equal(t, TokIdent, tokens[2].Kind)
	assert.Equal(t, "_123", tokens[2].Ident)
}

func TestLexNumberBases(t *testing.T) {
	tokens := lexAll(t, "0b1010 0o17 0xFF 1_000_000 3.14")
	require.Len(t, tokens, 5)
	assert.Equal(t, uint64(10), tokens[0].Int)
	assert.Equal(t, uint64(15), tokens[1].Int)
	assert.Equal(t, uint64(255), tokens[2].Int)
	assert.Equal(t, uint64(1000000), tokens[3].Int)
	assert.Equal(t, TokFloatLit, tokens[4].Kind)
	assert.InDelta(t, 3.14, tokens[4].Float, 0.0001)
}

func TestLexDotVsRange(t *testing.T) {
	tokens := lexAll(t, "a.b 0..10")
	kinds := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{
		TokIdent, TokDot, TokIdent, TokIntLit, TokDot, TokDot, TokIntLit,
	}, kinds)
}

func TestLexStringEscapes(t *testing.T) {
	tokens := lexAll(t, `"hello\nworld"`)
	require.Len(t, tokens, 1)
	assert.Equal(t, "hello\nworld", tokens[0].Str)
}

func TestLexCharLit(t *testing.T) {
	tokens := lexAll(t, `'a' '\n'`)
	require.Len(t, tokens, 2)
	assert.Equal(t, byte('a'), tokens[0].Char)
	assert.Equal(t, byte('\n'), tokens[1].Char)
}

func TestLexDirective(t *testing.T) {
	tokens := lexAll(t, "#output;")
	require.Len(t, tokens, 2)
	assert.Equal(t, TokDirective, tokens[0].Kind)
	assert.True(t, tokens[0].IsDirective)
	assert.Equal(t, "output", tokens[0].Ident)
}

func TestLexSkipsComments(t *testing.T) {
	tokens := lexAll(t, "a // trailing comment\nb /* block\ncomment */ c")
	require.Len(t, tokens, 3)
	assert.Equal(t, "a", tokens[0].Ident)
	assert.Equal(t, "b", tokens[1].Ident)
	assert.Equal(t, "c", tokens[2].Ident)
}

func TestLexMalformedCharLitErrors(t *testing.T) {
	_, _, err := Lex("test.cur", []byte(`'ab'`))
	require.Error(t, err)
}

func TestLexUnknownCharacterErrors(t *testing.T) {
	_, _, err := Lex("test.cur", []byte("@"))
	require.Error(t, err)
}
