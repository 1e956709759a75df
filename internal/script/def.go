package script

import (
	"fmt"

	"github.com/calcemu/addcalc/internal/expression"
	"github.com/mitchellh/mapstructure"
)

type scriptRootDef struct {
	Calculations []any `json:"calculations"`
}

type calculationDef struct {
	Name       string `json:"name" mapstructure:"name"`
	Expression string `json:"expression" mapstructure:"expression"`
}

func (d scriptRootDef) compile() (*Script, error) {
	if len(d.Calculations) == 0 {
		return nil, fmt.Errorf("no calculations")
	}

	seen := make(map[string]bool, len(d.Calculations))
	calculations := make([]*Calculation, len(d.Calculations))
	for i, raw := range d.Calculations {
		var def calculationDef
		switch v := raw.(type) {
		case string:
			// bare string shorthand: the expression names itself
			def = calculationDef{Name: v, Expression: v}

		case map[string]any:
			if err := mapstructure.Decode(v, &def); err != nil {
				return nil, fmt.Errorf("calculations[%d]: %w", i, err)
			}

		default:
			return nil, fmt.Errorf("calculations[%d]: unexpected type %T", i, raw)
		}

		if def.Name == "" {
			return nil, fmt.Errorf("calculations[%d]: name is required", i)
		}
		if def.Expression == "" {
			return nil, fmt.Errorf("calculations[%d] %s: expression is required", i, def.Name)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("calculations[%d]: duplicated name %q", i, def.Name)
		}
		seen[def.Name] = true

		expr, err := expression.ParseExpr(def.Expression)
		if err != nil {
			return nil, fmt.Errorf("calculations[%d] %s: %w", i, def.Name, err)
		}

		calculations[i] = &Calculation{
			Name: def.Name,
			Expr: expr,
		}
	}

	return &Script{calculations: calculations}, nil
}
