package evaluator

import (
	"fmt"
	"math"

	"github.com/coursekit/exprdsl/pkg/types"
)

// mathNamespace is the value of the ambient Math identifier. It exists only
// to be the receiver of a call; accessing or returning it directly is an
// evaluation error.
type mathNamespace struct{}

// callMath dispatches the restricted Math surface. Only the listed pure
// functions exist; anything else is an unknown-function error.
func callMath(name string, args []any) (any, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := toNumber(a)
		if !ok {
			return nil, types.NewError(types.ErrTypeMismatch,
				fmt.Sprintf("Math.%s expects numbers, got %s", name, typeName(a)), -1)
		}
		nums[i] = n
	}

	switch name {
	case "abs":
		return unaryMath(name, nums, math.Abs)
	case "floor":
		return unaryMath(name, nums, math.Floor)
	case "ceil":
		return unaryMath(name, nums, math.Ceil)
	case "round":
		return unaryMath(name, nums, math.Round)
	case "sqrt":
		return unaryMath(name, nums, math.Sqrt)
	case "trunc":
		return unaryMath(name, nums, math.Trunc)
	case "pow":
		if len(nums) != 2 {
			return nil, types.NewError(types.ErrArgumentCount, "Math.pow expects 2 arguments", -1)
		}
		return math.Pow(nums[0], nums[1]), nil
	case "min":
		return foldMath(name, nums, math.Min)
	case "max":
		return foldMath(name, nums, math.Max)
	default:
		return nil, types.NewError(types.ErrUndefinedFunction,
			fmt.Sprintf("Unknown function: Math.%s", name), -1).WithToken(name)
	}
}

func unaryMath(name string, nums []float64, fn func(float64) float64) (any, error) {
	if len(nums) != 1 {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("Math.%s expects 1 argument", name), -1)
	}
	return fn(nums[0]), nil
}

func foldMath(name string, nums []float64, fn func(float64, float64) float64) (any, error) {
	if len(nums) == 0 {
		return nil, types.NewError(types.ErrArgumentCount,
			fmt.Sprintf("Math.%s expects at least 1 argument", name), -1)
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		acc = fn(acc, n)
	}
	return acc, nil
}
