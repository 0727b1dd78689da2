package cst

import (
	"math"
	"strconv"
	"strings"
)

// NumericKind tags the shape of a parsed numeric literal.
type NumericKind int

const (
	// NumericNaN marks text that could not be parsed as any numeric form.
	// Callers must treat it as "unknown", not as a falsy constant (spec §7).
	NumericNaN NumericKind = iota
	NumericInteger
	NumericFloat
	NumericBigInt
)

// NumericLiteral is the parsed value of a JavaScript numeric literal text,
// one of {NaN, Integer(int64), Float(float64), BigInt(int64)} per spec
// §4.1. BigInt values beyond int64 range are out of scope: this analyzer
// only ever needs bigints for truthiness/constant-folding, not arithmetic.
type NumericLiteral struct {
	Kind  NumericKind
	Int   int64
	Float float64
}

// ParseNumeric parses the textual form of a JavaScript numeric literal.
// It strips digit-group underscores, recognizes 0x/0X, 0o/0O, 0b/0B base
// prefixes, legacy-octal leading zero (only when every remaining digit is
// octal and there is no dot), a trailing "n" bigint suffix (illegal when a
// decimal point is present), and otherwise falls back to decimal integer
// then float. Invalid text yields NumericNaN rather than an error.
func ParseNumeric(text string) NumericLiteral {
	t := strings.ReplaceAll(text, "_", "")
	if t == "" {
		return NumericLiteral{Kind: NumericNaN}
	}

	isBigInt := false
	if strings.HasSuffix(t, "n") {
		isBigInt = true
		t = t[:len(t)-1]
	}

	if len(t) > 2 && t[0] == '0' {
		switch t[1] {
		case 'x', 'X':
			return parseBase(t[2:], 16, isBigInt)
		case 'o', 'O':
			return parseBase(t[2:], 8, isBigInt)
		case 'b', 'B':
			return parseBase(t[2:], 2, isBigInt)
		}
	}

	// legacy octal: leading zero, no dot, every remaining digit octal.
	if len(t) > 1 && t[0] == '0' && !strings.Contains(t, ".") && isAllOctal(t[1:]) {
		if isBigInt {
			return NumericLiteral{Kind: NumericNaN}
		}
		return parseBase(t[1:], 8, false)
	}

	if isBigInt {
		if strings.Contains(t, ".") {
			// illegal: bigint suffix with a decimal part.
			return NumericLiteral{Kind: NumericNaN}
		}
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			return NumericLiteral{Kind: NumericBigInt, Int: v}
		}
		return NumericLiteral{Kind: NumericNaN}
	}

	if v, err := strconv.ParseInt(t, 10, 64); err == nil {
		return NumericLiteral{Kind: NumericInteger, Int: v}
	}
	if v, err := strconv.ParseFloat(t, 64); err == nil {
		return NumericLiteral{Kind: NumericFloat, Float: v}
	}
	return NumericLiteral{Kind: NumericNaN}
}

func isAllOctal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return true
}

func parseBase(digits string, base int, isBigInt bool) NumericLiteral {
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return NumericLiteral{Kind: NumericNaN}
	}
	if isBigInt {
		return NumericLiteral{Kind: NumericBigInt, Int: v}
	}
	return NumericLiteral{Kind: NumericInteger, Int: v}
}

// AsFloat returns the literal's value widened to float64, for numeric
// comparisons that must cross the Integer/Float/BigInt tag boundary.
func (n NumericLiteral) AsFloat() float64 {
	switch n.Kind {
	case NumericFloat:
		return n.Float
	case NumericInteger, NumericBigInt:
		return float64(n.Int)
	default:
		return math.NaN()
	}
}

// Equal implements the numerically-equal comparison from spec §4.1: two
// Integer/Float/BigInt values compare equal iff numerically equal; NaN
// compares unequal to everything, including another NaN.
func (n NumericLiteral) Equal(other NumericLiteral) bool {
	if n.Kind == NumericNaN || other.Kind == NumericNaN {
		return false
	}
	return n.AsFloat() == other.AsFloat()
}

// Less reports n < other. The second return value is false (unordered)
// whenever either operand is NaN.
func (n NumericLiteral) Less(other NumericLiteral) (less bool, ordered bool) {
	if n.Kind == NumericNaN || other.Kind == NumericNaN {
		return false, false
	}
	return n.AsFloat() < other.AsFloat(), true
}

// Hash returns a hash consistent with Equal: numerically-equal Integer and
// Float values hash identically because both hash through AsFloat's bit
// pattern rather than through the Kind tag.
func (n NumericLiteral) Hash() uint64 {
	if n.Kind == NumericNaN {
		return 0
	}
	return math.Float64bits(n.AsFloat())
}

// Truthy reports the statically-known boolean value of a literal-only
// test expression's numeric form, used by the code-path analyzer's
// constant-truthiness pruning (spec §4.3). NumericNaN yields false; since
// NumericNaN marks text that could not be parsed, the code-path analyzer
// checks Kind first and treats NumericNaN as unknown rather than calling
// Truthy on it.
func (n NumericLiteral) Truthy() bool {
	if n.Kind == NumericNaN {
		return false
	}
	return n.AsFloat() != 0
}
