package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticPromotion(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		a, b any
		want any
	}{
		{"int add", Add, 2, 3, 5},
		{"int64 add normalises", Add, int64(2), int32(3), 5},
		{"mixed add", Add, 2, 0.5, 2.5},
		{"string add", Add, "ab", "cd", "abcd"},
		{"sub", Sub, 2, 5, -3},
		{"mul", Mul, 4, 3, 12},
		{"string repeat", Mul, "ab", 2, "abab"},
		{"true division", Div, 7, 2, 3.5},
		{"floored mod", Mod, -7, 3, 2},
		{"float mod", Mod, 7.5, -2.0, -0.5},
		{"int pow", Pow, 2, 10, 1024},
		{"negative exponent", Pow, 2, -1, 0.5},
		{"huge exponent of one", Pow, 1, 1 << 40, 1},
		{"huge exponent of minus one", Pow, -1, 1<<40 + 1, -1},
		{"pow fits exactly", Pow, -2, 63, math.MinInt},
		{"pow overflow", Pow, 2, 64, math.Pow(2, 64)},
		{"odd pow overflow", Pow, 3, 41, math.Pow(3, 41)},
		{"add overflow", Add, math.MaxInt, 1, float64(math.MaxInt) + 1},
		{"sub overflow", Sub, math.MinInt, 1, float64(math.MinInt) - 1},
		{"mul overflow", Mul, math.MaxInt, 2, float64(math.MaxInt) * 2},
		{"mul min by minus one", Mul, math.MinInt, -1, -float64(math.MinInt)},
		{"large uint64", Add, uint64(1 << 63), 0, float64(1 << 63)},
		{"large uint", Mul, uint(math.MaxUint), 1, float64(math.MaxUint)},
		{"small uint64", Add, uint64(7), 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnsupportedOperands(t *testing.T) {
	_, err := Add("a", 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)

	_, err = Sub(nil, 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)

	_, err = Mod(1, 0)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)

	_, err = Lt("a", 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}

func TestDiffer(t *testing.T) {
	assert.False(t, Differ(nil, nil))
	assert.True(t, Differ(nil, 0))
	assert.True(t, Differ(0, nil))
	assert.False(t, Differ(1.0, 1.000001))
	assert.True(t, Differ(1.0, 1.0001))
	assert.False(t, Differ(2, 2.0))
	assert.False(t, Differ(math.NaN(), math.NaN()))
	assert.True(t, Differ(math.Inf(1), 1e300))
	assert.True(t, Differ("a", "b"))
	assert.False(t, Differ([]any{1, "x"}, []any{1, "x"}))
}

func TestComparisonsAndLogic(t *testing.T) {
	lt, err := Lt(1, 2.5)
	require.NoError(t, err)
	assert.Equal(t, true, lt)

	ge, err := Ge("b", "a")
	require.NoError(t, err)
	assert.Equal(t, true, ge)

	eq, _ := Eq(2, 2.0)
	assert.Equal(t, true, eq)
	ne, _ := Ne(nil, 0)
	assert.Equal(t, true, ne)

	and, _ := And(1, "")
	assert.Equal(t, false, and)
	or, _ := Or(0, []int{1})
	assert.Equal(t, true, or)

	pick, _ := If(false, "yes", "no")
	assert.Equal(t, "no", pick)
}

func TestTransforms(t *testing.T) {
	n, err := Len("héllo")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = Len(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, _ := Str(nil)
	assert.Equal(t, "None", s)
	s, _ = Str(0.5)
	assert.Equal(t, "0.5", s)

	i, err := Int("3.9")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	f, err := Float("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	inv, _ := Invert(4)
	assert.Equal(t, 0.25, inv)

	sum, _ := Sum(1, 2, 3.5)
	assert.Equal(t, 6.5, sum)

	avg, _ := Average(1, 2, 3, 4)
	assert.Equal(t, 2.5, avg)

	abs, _ := Abs(-3)
	assert.Equal(t, 3, abs)

	sq, _ := Sqrt(9)
	assert.Equal(t, 3.0, sq)
}

func TestOpCallRecoversPanics(t *testing.T) {
	boom := Op{Name: "boom", Fn: func(args ...any) (any, error) { panic("kaboom") }}
	_, err := boom.Call()
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Op)
	assert.Contains(t, err.Error(), "kaboom")
}
