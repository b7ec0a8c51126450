// Package exttext provides text helper functions for expressions over
// free-form learner input, complementing the fixed wordCount builtin.
package exttext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/coursekit/exprdsl/pkg/functions"
)

// All returns every text helper definition in this package.
func All() []functions.Def {
	return []functions.Def{
		CharCount(),
		StartsWith(),
		EndsWith(),
		Contains(),
		Join(),
	}
}

// Register registers every text helper in this package on r.
func Register(r *functions.Registry) {
	r.RegisterAll(All()...)
}

// CharCount returns the number of characters (runes) in a string.
func CharCount() functions.Def {
	return functions.Def{
		Name: "charCount",
		Fn: func(args []any) (any, error) {
			s, err := oneString("charCount", args)
			if err != nil {
				return nil, err
			}
			return float64(utf8.RuneCountInString(s)), nil
		},
	}
}

// StartsWith reports whether a string starts with a prefix.
func StartsWith() functions.Def {
	return functions.Def{
		Name: "startsWith",
		Fn: func(args []any) (any, error) {
			s, sub, err := twoStrings("startsWith", args)
			if err != nil {
				return nil, err
			}
			return strings.HasPrefix(s, sub), nil
		},
	}
}

// EndsWith reports whether a string ends with a suffix.
func EndsWith() functions.Def {
	return functions.Def{
		Name: "endsWith",
		Fn: func(args []any) (any, error) {
			s, sub, err := twoStrings("endsWith", args)
			if err != nil {
				return nil, err
			}
			return strings.HasSuffix(s, sub), nil
		},
	}
}

// Contains reports whether a string contains a substring.
func Contains() functions.Def {
	return functions.Def{
		Name: "contains",
		Fn: func(args []any) (any, error) {
			s, sub, err := twoStrings("contains", args)
			if err != nil {
				return nil, err
			}
			return strings.Contains(s, sub), nil
		},
	}
}

// Join concatenates the string elements of a list with a separator:
// join(@answers, ", ").
func Join() functions.Def {
	return functions.Def{
		Name: "join",
		Fn: func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("join expects 2 arguments, got %d", len(args))
			}
			list, lok := args[0].([]any)
			sep, sok := args[1].(string)
			if !sok {
				return nil, fmt.Errorf("join expects a string separator")
			}
			if !lok {
				if args[0] == nil {
					return "", nil
				}
				return nil, fmt.Errorf("join expects a list")
			}
			parts := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("join expects a list of strings")
				}
				parts = append(parts, s)
			}
			return strings.Join(parts, sep), nil
		},
	}
}

func oneString(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		if args[0] == nil {
			return "", nil
		}
		return "", fmt.Errorf("%s expects a string", name)
	}
	return s, nil
}

func twoStrings(name string, args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
	}
	s, sok := args[0].(string)
	sub, bok := args[1].(string)
	if !bok {
		return "", "", fmt.Errorf("%s expects string arguments", name)
	}
	if !sok {
		// Absent state compares like the empty string.
		s = ""
	}
	return s, sub, nil
}
