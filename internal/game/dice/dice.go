// Package dice parses and rolls dice expressions such as weapon damage
// ("3d8") and the Force die ("2d6kh1").
package dice

import (
	"fmt"
	"slices"
)

// Source supplies uniform integers in [0, n). Implementations are shared
// between goroutines and must tolerate concurrent calls.
type Source interface {
	Intn(n int) int
}

// RollResult records what a roll produced: the label it was rolled under, the
// dice that counted, and the flat modifier.
type RollResult struct {
	Expression string `json:"expression"`
	Dice       []int  `json:"dice"`
	Modifier   int    `json:"modifier"`
}

// Total is the kept dice plus the modifier.
func (r RollResult) Total() int {
	sum := r.Modifier
	for _, d := range r.Dice {
		sum += d
	}
	return sum
}

// String formats the result for logs, e.g. "2d6+3 [4 5] +3 = 12". A result
// without a label renders as "roll".
func (r RollResult) String() string {
	label := r.Expression
	if label == "" {
		label = "roll"
	}
	return fmt.Sprintf("%s %v %+d = %d", label, r.Dice, r.Modifier, r.Total())
}

// Roll throws expr.Count dice of expr.Sides faces from src. With KeepHighest
// set only that many of the highest faces are returned, highest first.
//
// Precondition: expr satisfies the Parse invariants; src is non-nil.
func Roll(expr Expression, src Source) (RollResult, error) {
	if expr.Count < 1 || expr.Sides < 2 {
		return RollResult{}, fmt.Errorf("dice: cannot roll %dd%d", expr.Count, expr.Sides)
	}
	faces := make([]int, 0, expr.Count)
	for range expr.Count {
		faces = append(faces, 1+src.Intn(expr.Sides))
	}
	if k := expr.KeepHighest; k > 0 && k < len(faces) {
		slices.SortFunc(faces, func(a, b int) int { return b - a })
		faces = faces[:k]
	}

	res := RollResult{Expression: expr.Raw, Dice: faces, Modifier: expr.Modifier}
	if res.Expression == "" {
		res.Expression = expr.String()
	}
	return res, nil
}

// RollExpr is Parse followed by Roll.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// MustParse is Parse for expressions fixed at compile time.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("dice.MustParse(%q): %v", expr, err))
	}
	return e
}
