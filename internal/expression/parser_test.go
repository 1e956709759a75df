package expression_test

import (
	"errors"
	"testing"

	"github.com/calcemu/addcalc/internal/expression"
	"github.com/calcemu/addcalc/internal/types"
)

func TestParseExpr(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source                string
		expected              int64
		expectToBeParseErr    bool
		expectToBeEvaluateErr bool
		expectedTag           types.ErrorTag
		debug                 bool
	}{
		{
			source:             "",
			expectToBeParseErr: true,
		},
		{
			source:             ")",
			expectToBeParseErr: true,
		},
		{
			source:             "()",
			expectToBeParseErr: true,
		},
		{
			source:             "(",
			expectToBeParseErr: true,
			expectedTag:        types.UnmatchedParenthesisTag,
		},
		{
			source:             "(1+2",
			expectToBeParseErr: true,
			expectedTag:        types.UnmatchedParenthesisTag,
		},
		{
			source:             "(13+4)-(12+1",
			expectToBeParseErr: true,
			expectedTag:        types.UnmatchedParenthesisTag,
		},
		{
			// the first closing parenthesis pairs with the outer opening
			// one, leaving the inner group unclosed
			source:             "((2))",
			expectToBeParseErr: true,
			expectedTag:        types.UnmatchedParenthesisTag,
		},
		{
			source:             "a",
			expectToBeParseErr: true,
			expectedTag:        types.MalformedLiteralTag,
		},
		{
			source:             "12a",
			expectToBeParseErr: true,
			expectedTag:        types.MalformedLiteralTag,
		},
		{
			source:             "1 + 2",
			expectToBeParseErr: true,
			expectedTag:        types.MalformedLiteralTag,
		},
		{
			source:             "1.5",
			expectToBeParseErr: true,
			expectedTag:        types.MalformedLiteralTag,
		},
		{
			source:             "9223372036854775808",
			expectToBeParseErr: true,
		},
		{
			source:                "+",
			expectToBeEvaluateErr: true,
			expectedTag:           types.MissingOperandTag,
		},
		{
			source:                "1+",
			expectToBeEvaluateErr: true,
			expectedTag:           types.MissingOperandTag,
		},
		{
			source:                "+2",
			expectToBeEvaluateErr: true,
			expectedTag:           types.MissingOperandTag,
		},
		{
			source:                "(1+2)-",
			expectToBeEvaluateErr: true,
			expectedTag:           types.MissingOperandTag,
		},
		{
			source:   "5",
			expected: 5,
		},
		{
			source:   "123",
			expected: 123,
		},
		{
			source:   "007",
			expected: 7,
		},
		{
			source:   "1+2",
			expected: 3,
		},
		{
			source:   "13-4",
			expected: 9,
		},
		{
			source:   "0-5",
			expected: -5,
		},
		{
			source:   "(1)",
			expected: 1,
		},
		{
			source:   "(1+2)",
			expected: 3,
		},
		{
			source:   "(13+4)-(12+1)",
			expected: 4,
		},
		{
			source:   "(12+1)-(13+4)",
			expected: -4,
		},
		{
			// only the first left operand and the last right operand
			// survive; the operator is the last one seen
			source:   "1+2+3",
			expected: 4,
		},
		{
			source:   "1+2-3",
			expected: -2,
		},
		{
			source:   "10-2-3",
			expected: 7,
		},
		{
			// two operands without an operator evaluate to 0
			source:   "1(2)",
			expected: 0,
		},
		{
			source:   "(1+2)(3+4)",
			expected: 0,
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			parseExpr := expression.ParseExpr
			if tt.debug {
				parseExpr = expression.ParseExprWithDebugOutput
			}

			expr, err := parseExpr(tt.source)
			if err != nil {
				if tt.expectToBeParseErr {
					t.Logf("expected parse error: %v", err)
					assertErrorTag(t, err, tt.expectedTag)
					return
				}
				t.Fatal(err)
			}
			if tt.expectToBeParseErr {
				t.Error("should be parse error")
				return
			}

			ret, err := expr.Evaluate()
			if err != nil {
				if tt.expectToBeEvaluateErr {
					t.Logf("expected evaluate error: %v", err)
					assertErrorTag(t, err, tt.expectedTag)
					return
				}
				t.Fatal(err)
			}
			if tt.expectToBeEvaluateErr {
				t.Error("should be evaluate error")
				return
			}

			if ret != tt.expected {
				t.Errorf("expect to %d but got %d", tt.expected, ret)
			}
		})
	}
}

func assertErrorTag(t *testing.T, err error, expectedTag types.ErrorTag) {
	t.Helper()

	if expectedTag == "" {
		return
	}

	var tagged *types.Error
	if !errors.As(err, &tagged) {
		t.Errorf("expect tag %s but error is untagged: %v", expectedTag, err)
		return
	}
	if tagged.Tag != expectedTag {
		t.Errorf("expect tag %s but got %s", expectedTag, tagged.Tag)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	ret, err := expression.Evaluate("(13+4)-(12+1)")
	if err != nil {
		t.Fatal(err)
	}
	if ret != 4 {
		t.Errorf("expect to 4 but got %d", ret)
	}

	// no hidden state: same input, same result
	again, err := expression.Evaluate("(13+4)-(12+1)")
	if err != nil {
		t.Fatal(err)
	}
	if again != ret {
		t.Errorf("expect to %d but got %d", ret, again)
	}
}

func TestParseTokenSequence(t *testing.T) {
	t.Parallel()

	tokens, err := expression.Lex("(1+2)")
	if err != nil {
		t.Fatal(err)
	}
	if tokens.Len() != 5 {
		t.Fatalf("expect 5 tokens but got %d", tokens.Len())
	}

	expr, err := expression.Parse(tokens)
	if err != nil {
		t.Fatal(err)
	}

	ret, err := expr.Evaluate()
	if err != nil {
		t.Fatal(err)
	}
	if ret != 3 {
		t.Errorf("expect to 3 but got %d", ret)
	}
}

func TestEvaluateSharedExpr(t *testing.T) {
	t.Parallel()

	expr, err := expression.ParseExpr("(13+4)-(12+1)")
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			ret, err := expr.Evaluate()
			if err == nil && ret != 4 {
				err = errors.New("unexpected result")
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

func FuzzParseExpr(f *testing.F) {
	f.Add("(13+4)-(12+1)")
	f.Add("1+2+3")
	f.Fuzz(func(t *testing.T, source string) {
		expr, err := expression.ParseExpr(source)
		if err != nil {
			t.Logf("INVALID: %q (%v)", source, err)
			return
		}

		if _, err := expr.Evaluate(); err != nil {
			t.Logf("FAULT: %q (%v)", source, err)
			return
		}

		t.Logf("PASS: %q", source)
	})
}
