package dice_test

import (
	"testing"

	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
	assert.Equal(t, "2d6+3 [4 5] +3 = 12", r.String())
}

func TestRollResult_String_UnlabelledRoll(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Equal(t, "roll [4] +0 = 4", r.String())
}

func TestRoll_RejectsInvalidExpression(t *testing.T) {
	_, err := dice.Roll(dice.Expression{Count: 0, Sides: 6}, dice.NewSequence(1))
	assert.Error(t, err)
	_, err = dice.Roll(dice.Expression{Count: 1, Sides: 1}, dice.NewSequence(1))
	assert.Error(t, err)
}

func TestRoll_UsesCanonicalLabelWithoutRaw(t *testing.T) {
	res, err := dice.Roll(dice.Expression{Count: 2, Sides: 6, Modifier: 1}, dice.NewSequence(0, 5))
	require.NoError(t, err)
	assert.Equal(t, "2d6+1", res.Expression)
	assert.Equal(t, []int{1, 6}, res.Dice)
}

func TestSequence_WrapsAndCounts(t *testing.T) {
	seq := dice.NewSequence(4, 9)
	assert.Equal(t, 4, seq.Intn(6))
	assert.Equal(t, 3, seq.Intn(6))
	assert.Equal(t, 4, seq.Intn(6))
	assert.Equal(t, 3, seq.Drawn())
	assert.Panics(t, func() { dice.NewSequence() })
}

func TestSourceFunc(t *testing.T) {
	var src dice.Source = dice.SourceFunc(func(n int) int { return n - 1 })
	res, err := dice.RollExpr("3d4", src)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total())
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want dice.Expression
	}{
		{"d20", dice.Expression{Raw: "d20", Count: 1, Sides: 20}},
		{"3d8", dice.Expression{Raw: "3d8", Count: 3, Sides: 8}},
		{"2d6+3", dice.Expression{Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3}},
		{"4d8-2", dice.Expression{Raw: "4d8-2", Count: 4, Sides: 8, Modifier: -2}},
		{"3d6kh1", dice.Expression{Raw: "3d6kh1", Count: 3, Sides: 6, KeepHighest: 1}},
		{" 2D6KH1+1 ", dice.Expression{Raw: " 2D6KH1+1 ", Count: 2, Sides: 6, KeepHighest: 1, Modifier: 1}},
	}
	for _, tc := range cases {
		got, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "3", "0d6", "2d1", "2d6kh2", "2d6kh0", "d", "3d8 plus 2", "special"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected %q to be rejected", in)
	}
}

func TestExpression_StringAndWithSides(t *testing.T) {
	e := dice.MustParse("3d8")
	assert.Equal(t, "3d8", e.String())
	smaller := e.WithSides(6)
	assert.Equal(t, "3d6", smaller.Raw)
	assert.Equal(t, 3, smaller.Count)
	assert.Equal(t, "3d8", e.Raw, "WithSides must not mutate the receiver")
	assert.Equal(t, "2d6kh1-1", dice.Expression{Count: 2, Sides: 6, KeepHighest: 1, Modifier: -1}.String())
	assert.Panics(t, func() { e.WithSides(1) })
}

func TestRoll_KeepHighest(t *testing.T) {
	src := dice.NewSequence(1, 5, 3)
	res, err := dice.RollExpr("3d6kh1", src)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, res.Dice)
	assert.Equal(t, 6, res.Total())
}

func TestProperty_RollWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(t, "count")
		sides := rapid.SampledFrom([]int{2, 3, 4, 6, 8, 10, 12, 20}).Draw(t, "sides")
		mod := rapid.IntRange(-10, 10).Draw(t, "mod")
		res, err := dice.Roll(dice.Expression{Count: count, Sides: sides, Modifier: mod}, dice.NewCryptoSource())
		if err != nil {
			t.Fatal(err)
		}
		total := res.Total()
		if total < count+mod || total > count*sides+mod {
			t.Fatalf("total %d out of range for %dd%d%+d", total, count, sides, mod)
		}
	})
}

func TestProperty_ParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 20).Draw(t, "count")
		sides := rapid.IntRange(2, 100).Draw(t, "sides")
		mod := rapid.IntRange(-50, 50).Draw(t, "mod")
		want := dice.Expression{Count: count, Sides: sides, Modifier: mod}
		got, err := dice.Parse(want.String())
		if err != nil {
			t.Fatal(err)
		}
		if got.Count != count || got.Sides != sides || got.Modifier != mod {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
		}
	})
}

func TestCryptoSource_Intn(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 500; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestRoller_LogsRollsAndMalformedInput(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewRoller(dice.NewSequence(2), zap.New(core))

	res, err := r.RollExpr("2d6")
	require.NoError(t, err)
	assert.Equal(t, 6, res.Total())
	assert.Equal(t, 1, logs.FilterMessage("dice roll").Len())

	_, err = r.RollExpr("bogus")
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("malformed dice expression").Len())
}

func TestNewRoller_PanicsOnNilSource(t *testing.T) {
	assert.Panics(t, func() { dice.NewRoller(nil, nil) })
}
