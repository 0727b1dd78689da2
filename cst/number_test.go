package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		wantKind NumericKind
		wantInt  int64
		wantF    float64
	}{
		{name: "decimal integer", text: "42", wantKind: NumericInteger, wantInt: 42},
		{name: "underscored integer", text: "1_000_000", wantKind: NumericInteger, wantInt: 1000000},
		{name: "float", text: "3.14", wantKind: NumericFloat, wantF: 3.14},
		{name: "hex", text: "0xFF", wantKind: NumericInteger, wantInt: 255},
		{name: "octal prefix", text: "0o17", wantKind: NumericInteger, wantInt: 15},
		{name: "binary", text: "0b101", wantKind: NumericInteger, wantInt: 5},
		{name: "legacy octal", text: "017", wantKind: NumericInteger, wantInt: 15},
		{name: "leading zero decimal with 8 or 9 is not octal", text: "019", wantKind: NumericInteger, wantInt: 19},
		{name: "bigint", text: "10n", wantKind: NumericBigInt, wantInt: 10},
		{name: "bigint with decimal is illegal", text: "1.5n", wantKind: NumericNaN},
		{name: "legacy octal bigint is illegal", text: "017n", wantKind: NumericNaN},
		{name: "garbage", text: "abc", wantKind: NumericNaN},
		{name: "empty", text: "", wantKind: NumericNaN},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseNumeric(tc.text)
			assert.Equal(t, tc.wantKind, got.Kind)
			switch tc.wantKind {
			case NumericInteger, NumericBigInt:
				assert.Equal(t, tc.wantInt, got.Int)
			case NumericFloat:
				assert.InDelta(t, tc.wantF, got.Float, 1e-9)
			}
		})
	}
}

func TestNumericLiteral_Equal(t *testing.T) {
	intFour := ParseNumeric("4")
	floatFour := ParseNumeric("4.0")
	nan := ParseNumeric("not-a-number")

	assert.True(t, intFour.Equal(floatFour))
	assert.False(t, nan.Equal(nan))
	assert.False(t, intFour.Equal(nan))
}

func TestNumericLiteral_Less(t *testing.T) {
	one := ParseNumeric("1")
	two := ParseNumeric("2")
	nan := ParseNumeric("oops")

	less, ordered := one.Less(two)
	assert.True(t, ordered)
	assert.True(t, less)

	_, ordered = nan.Less(one)
	assert.False(t, ordered)
}

func TestNumericLiteral_Truthy(t *testing.T) {
	assert.True(t, ParseNumeric("1").Truthy())
	assert.False(t, ParseNumeric("0").Truthy())
	assert.False(t, ParseNumeric("garbage").Truthy())
}
