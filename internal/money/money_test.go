package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoundsHalfUp(t *testing.T) {
	a, err := Parse("10.005")
	require.NoError(t, err)
	require.Equal(t, "10.01", a.String())

	b, err := Parse("10.004")
	require.NoError(t, err)
	require.Equal(t, "10.00", b.String())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not-a-number")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestArithmetic(t *testing.T) {
	price := MustParse("5.00")
	total := price.MulInt(3)
	require.Equal(t, "15.00", total.String())

	pending := total.Sub(MustParse("12.00"))
	require.Equal(t, "3.00", pending.String())

	sum := pending.Add(MustParse("12.00"))
	require.True(t, sum.Equal(total))
}

func TestMulIntRoundsExcessPrecision(t *testing.T) {
	// 0.33 * 7 = 2.31, exact at two digits.
	require.Equal(t, "2.31", MustParse("0.33").MulInt(7).String())
	// 1.005 parses as 1.01 before multiplication.
	require.Equal(t, "3.03", MustParse("1.005").MulInt(3).String())
}

func TestComparisons(t *testing.T) {
	a := MustParse("19.99")
	b := MustParse("20.00")
	require.True(t, a.LessThan(b))
	require.True(t, b.GreaterThan(a))
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 0, b.Cmp(MustParse("20")))
	require.True(t, b.Sub(a).IsPositive())
	require.True(t, a.Sub(b).IsNegative())
	require.True(t, a.Sub(a).IsZero())
}

func TestFromCents(t *testing.T) {
	require.Equal(t, "12.05", FromCents(1205).String())
	require.Equal(t, "-0.50", FromCents(-50).String())
}

func TestJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(MustParse("7.5"))
	require.NoError(t, err)
	require.Equal(t, `"7.50"`, string(raw))

	var back Amount
	require.NoError(t, json.Unmarshal(raw, &back))
	require.True(t, back.Equal(MustParse("7.50")))

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`42`), &back))
	require.Equal(t, "42.00", back.String())
}
