// Package extmatch provides answer-matching functions for content-grading
// extensions: comparisons that are more forgiving than the === operator.
package extmatch

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/coursekit/exprdsl/pkg/functions"
)

// All returns every matcher definition in this package.
func All() []functions.Def {
	return []functions.Def{
		EqualsIgnoreCase(),
		CloseTo(),
		Matches(),
		OneOf(),
	}
}

// Register registers every matcher in this package on r.
func Register(r *functions.Registry) {
	r.RegisterAll(All()...)
}

// EqualsIgnoreCase compares two strings case-insensitively after trimming
// surrounding whitespace: equalsIgnoreCase(@answer, "Paris").
func EqualsIgnoreCase() functions.Def {
	return functions.Def{
		Name: "equalsIgnoreCase",
		Fn: func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("equalsIgnoreCase expects 2 arguments, got %d", len(args))
			}
			a, aok := args[0].(string)
			b, bok := args[1].(string)
			if !aok || !bok {
				return false, nil
			}
			return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)), nil
		},
	}
}

// CloseTo reports whether a numeric answer is within tolerance of a target:
// closeTo(@answer, 3.14, 0.01).
func CloseTo() functions.Def {
	return functions.Def{
		Name: "closeTo",
		Fn: func(args []any) (any, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("closeTo expects 3 arguments, got %d", len(args))
			}
			value, vok := asNumber(args[0])
			target, tok := asNumber(args[1])
			tolerance, dok := asNumber(args[2])
			if !vok || !tok || !dok {
				return false, nil
			}
			return math.Abs(value-target) <= tolerance, nil
		},
	}
}

// Matches tests a string against an anchored regular expression:
// matches(@answer, "[0-9]+"). An invalid pattern is an evaluation error.
func Matches() functions.Def {
	return functions.Def{
		Name: "matches",
		Fn: func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("matches expects 2 arguments, got %d", len(args))
			}
			s, sok := args[0].(string)
			pattern, pok := args[1].(string)
			if !pok {
				return nil, fmt.Errorf("matches expects a string pattern")
			}
			re, err := regexp.Compile("^(?:" + pattern + ")$")
			if err != nil {
				return nil, fmt.Errorf("matches: invalid pattern: %w", err)
			}
			if !sok {
				return false, nil
			}
			return re.MatchString(s), nil
		},
	}
}

// OneOf reports whether the first argument strictly equals any later one:
// oneOf(@answer, "a", "b", "c").
func OneOf() functions.Def {
	return functions.Def{
		Name: "oneOf",
		Fn: func(args []any) (any, error) {
			if len(args) < 2 {
				return nil, fmt.Errorf("oneOf expects at least 2 arguments, got %d", len(args))
			}
			for _, candidate := range args[1:] {
				if equal(args[0], candidate) {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func equal(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, bok := asNumber(b)
		return bok && an == bn
	}
	return a == b
}
