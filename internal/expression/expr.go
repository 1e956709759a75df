package expression

// Expr is an immutable, evaluable expression tree. The same Expr can be
// evaluated any number of times, concurrently, with the same result.
type Expr struct {
	Source string
	node
}

func (e *Expr) String() string {
	return e.Source
}

func (e *Expr) Evaluate() (int64, error) {
	return e.evaluate()
}

// Evaluate composes lexing, parsing and evaluation of a single expression.
func Evaluate(source string) (int64, error) {
	expr, err := ParseExpr(source)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}
