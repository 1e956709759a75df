package expression

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/calcemu/addcalc/internal/types"
	"github.com/k0kubun/pp"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("ADDCALC_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	tokens *TokenSequence
	debug  bool
}

func ParseExpr(source string) (*Expr, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, debug: parserDebugLog}
	return p.parse()
}

func ParseExprWithDebugOutput(source string) (*Expr, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, debug: true}
	return p.parse()
}

// Parse builds the expression tree from an already lexed token sequence.
func Parse(tokens *TokenSequence) (*Expr, error) {
	p := &parser{tokens: tokens, debug: parserDebugLog}
	return p.parse()
}

func (p *parser) parse() (*Expr, error) {
	root, err := p.parseRange(0, p.tokens.Len())
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("empty expression is not allowed: expr=%q", p.tokens.source)
	}

	if p.debug {
		pp.Println(p.tokens.source)
		pp.Println(root)
		log.Println(p.renderNode(root))
	}

	return &Expr{
		Source: p.tokens.source,
		node:   root,
	}, nil
}

// nodeAccumulator carries the parser state for one token range: operands go
// to left until it is taken, then to right; the operator is whichever +/-
// token was seen last at this nesting level.
type nodeAccumulator struct {
	operator operator
	left     node
	right    node
	haveLeft bool
}

func (a *nodeAccumulator) assign(n node) {
	if !a.haveLeft {
		a.left = n
		a.haveLeft = true
	} else {
		a.right = n
	}
}

func (a *nodeAccumulator) finish() node {
	if a.operator == operatorUnset && a.right == nil {
		// a single bare operand needs no operation node around it
		return a.left
	}
	return &binaryOperationNode{
		operator: a.operator,
		left:     a.left,
		right:    a.right,
	}
}

// parseRange parses the tokens in [begin, end). An opening parenthesis is
// paired with the first closing parenthesis that follows it, without
// tracking nesting depth.
func (p *parser) parseRange(begin, end int) (node, error) {
	if begin == end {
		return nil, fmt.Errorf("empty expression is not allowed: expr=%q", p.tokens.source)
	}

	var acc nodeAccumulator
	for i := begin; i < end; i++ {
		switch tok := p.tokens.at(i).(type) {
		case integerLiteralToken:
			literal := p.tokens.literal(tok)
			v, err := strconv.ParseInt(literal, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid integer %s at %d: %w", literal, tok.BeginsPos(), err)
			}
			acc.assign(&integerLiteralNode{value: v})

		case plusToken:
			acc.operator = operatorAdd

		case minusToken:
			acc.operator = operatorSubtract

		case openParenToken:
			closeIdx := -1
			for j := i + 1; j < end; j++ {
				if _, isClose := p.tokens.at(j).(closeParenToken); isClose {
					closeIdx = j
					break
				}
			}
			if closeIdx == -1 {
				return nil, &types.Error{
					Tag:   types.UnmatchedParenthesisTag,
					Err:   fmt.Errorf("no closing parenthesis for %d: expr=%q", tok.BeginsPos(), p.tokens.source),
					Extra: map[string]any{"position": tok.BeginsPos()},
				}
			}
			if p.debug {
				log.Println("group: ", p.tokens.source[tok.BeginsPos():p.tokens.at(closeIdx).EndsPos()])
			}

			sub, err := p.parseRange(i+1, closeIdx)
			if err != nil {
				return nil, err
			}
			acc.assign(sub)
			i = closeIdx

		case closeParenToken:
			// a stray closing parenthesis at this level has no effect
		}
	}

	return acc.finish(), nil
}

func (p *parser) renderNode(n node) string {
	switch v := n.(type) {
	case *integerLiteralNode:
		return strconv.FormatInt(v.value, 10)
	case *binaryOperationNode:
		var b strings.Builder
		b.WriteByte('(')
		b.WriteString(v.operator.String())
		b.WriteByte(' ')
		if v.left != nil {
			b.WriteString(p.renderNode(v.left))
		} else {
			b.WriteString("nil")
		}
		b.WriteByte(' ')
		if v.right != nil {
			b.WriteString(p.renderNode(v.right))
		} else {
			b.WriteString("nil")
		}
		b.WriteByte(')')
		return b.String()
	default:
		return "nil"
	}
}
