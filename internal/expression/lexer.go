package expression

import (
	"fmt"
	"io"

	"github.com/calcemu/addcalc/internal/types"
)

type lexer struct {
	source string
	index  int
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
	}
}

// Lex scans source left to right in a single pass and returns the complete
// token sequence. "+", "-", "(" and ")" are one-character tokens; any other
// character must begin a run of decimal digits forming one integer literal.
func Lex(source string) (*TokenSequence, error) {
	l := newLexer(source)

	var tokens []token
	for {
		tok, err := l.consume()
		if err == io.EOF {
			return &TokenSequence{source: source, tokens: tokens}, nil
		} else if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) consume() (token, error) {
	if l.index == len(l.source) {
		return nil, io.EOF
	}

	switch l.source[l.index] {
	case '+':
		l.index++
		return plusToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
	case '-':
		l.index++
		return minusToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
	case '(':
		l.index++
		return openParenToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
	case ')':
		l.index++
		return closeParenToken{rangeToken{beginsPos: l.index - 1, endsPos: l.index}}, nil
	default:
		begin := l.index
		for l.index != len(l.source) && isDigit(l.source[l.index]) {
			l.index++
		}
		if l.index == begin {
			return nil, &types.Error{
				Tag:   types.MalformedLiteralTag,
				Err:   fmt.Errorf("invalid character at %d: %c", l.index, l.source[l.index]),
				Extra: map[string]any{"position": l.index},
			}
		}
		return integerLiteralToken{rangeToken{beginsPos: begin, endsPos: l.index}}, nil
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
