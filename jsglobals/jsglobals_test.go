package jsglobals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundle_Known(t *testing.T) {
	b, ok := Bundle("browser")
	assert.True(t, ok)
	assert.Equal(t, Readable, b["window"])
}

func TestBundle_Unknown(t *testing.T) {
	_, ok := Bundle("no-such-env")
	assert.False(t, ok)
}

func TestByEcmaVersion_IncludesBuiltin(t *testing.T) {
	merged := ByEcmaVersion(5)
	assert.Equal(t, Readable, merged["undefined"])
	_, hasSymbol := merged["Symbol"]
	assert.False(t, hasSymbol)
}

func TestByEcmaVersion_ES6Synonym(t *testing.T) {
	v6 := ByEcmaVersion(6)
	v2015 := ByEcmaVersion(2015)
	assert.Equal(t, v2015["Symbol"], v6["Symbol"])
}

func TestByEcmaVersion_Monotonic(t *testing.T) {
	merged := ByEcmaVersion(2022)
	assert.Equal(t, Readable, merged["Symbol"]) // from es6/es2015
	assert.Equal(t, Readable, merged["BigInt"]) // from es2020
}
