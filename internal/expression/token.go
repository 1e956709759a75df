package expression

type token interface {
	BeginsPos() int
	EndsPos() int
}

type rangeToken struct {
	beginsPos, endsPos int
}

func (t rangeToken) BeginsPos() int {
	return t.beginsPos
}

func (t rangeToken) EndsPos() int {
	return t.endsPos
}

type integerLiteralToken struct {
	rangeToken
}

type plusToken struct {
	rangeToken
}

type minusToken struct {
	rangeToken
}

type openParenToken struct {
	rangeToken
}

type closeParenToken struct {
	rangeToken
}

// TokenSequence is the ordered result of a single Lex pass. It owns the
// source string the token positions point into and is never mutated after
// construction, so it is safe to share between readers.
type TokenSequence struct {
	source string
	tokens []token
}

func (s *TokenSequence) Len() int {
	return len(s.tokens)
}

func (s *TokenSequence) at(i int) token {
	return s.tokens[i]
}

func (s *TokenSequence) literal(t token) string {
	return s.source[t.BeginsPos():t.EndsPos()]
}
