package expression

import (
	"fmt"

	"github.com/calcemu/addcalc/internal/types"
)

type operator int

const (
	operatorUnset operator = iota
	operatorAdd
	operatorSubtract
)

func (o operator) String() string {
	switch o {
	case operatorAdd:
		return "+"
	case operatorSubtract:
		return "-"
	default:
		return "(unset)"
	}
}

type node interface {
	evaluate() (int64, error)
}

type integerLiteralNode struct {
	value int64
}

func (n *integerLiteralNode) evaluate() (int64, error) {
	return n.value, nil
}

type binaryOperationNode struct {
	operator operator
	left     node
	right    node
}

func (n *binaryOperationNode) evaluate() (int64, error) {
	if n.operator == operatorUnset {
		// a node whose operator was never assigned evaluates to 0
		return 0, nil
	}
	if n.left == nil || n.right == nil {
		return 0, &types.Error{
			Tag: types.MissingOperandTag,
			Err: fmt.Errorf("operator %q is missing an operand", n.operator),
		}
	}

	left, err := n.left.evaluate()
	if err != nil {
		return 0, fmt.Errorf("left of operator %q: %w", n.operator, err)
	}

	right, err := n.right.evaluate()
	if err != nil {
		return 0, fmt.Errorf("right of operator %q: %w", n.operator, err)
	}

	switch n.operator {
	case operatorAdd:
		return left + right, nil
	case operatorSubtract:
		return left - right, nil
	default:
		panic(fmt.Sprintf("should not reach here: operator=%d", n.operator))
	}
}
