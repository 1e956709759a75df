package script

import (
	"fmt"

	"github.com/calcemu/addcalc/internal/expression"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Calculation is one named, already parsed expression of a script.
type Calculation struct {
	Name string
	Expr *expression.Expr
}

type Script struct {
	calculations []*Calculation
}

func (s *Script) Names() []string {
	return lo.Map(s.calculations, func(c *Calculation, _ int) string {
		return c.Name
	})
}

// Execute evaluates every calculation and returns the results keyed by name.
// Expression trees are immutable after parsing, so the calculations are
// evaluated concurrently.
func (s *Script) Execute() (map[string]int64, error) {
	results := make([]int64, len(s.calculations))

	var eg errgroup.Group
	for i, c := range s.calculations {
		i, c := i, c
		eg.Go(func() error {
			v, err := c.Expr.Evaluate()
			if err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	ret := make(map[string]int64, len(s.calculations))
	for i, c := range s.calculations {
		ret[c.Name] = results[i]
	}
	return ret, nil
}
