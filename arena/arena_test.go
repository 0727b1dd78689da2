package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArena_AllocGet(t *testing.T) {
	testCases := []struct {
		name   string
		values []string
	}{
		{name: "empty", values: nil},
		{name: "single", values: []string{"a"}},
		{name: "multiple", values: []string{"a", "b", "c"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewArena[string]()
			var ids []ID[string]
			for _, v := range tc.values {
				ids = append(ids, a.Alloc(v))
			}
			assert.Equal(t, len(tc.values), a.Len())
			for i, id := range ids {
				assert.True(t, id.Valid())
				assert.Equal(t, tc.values[i], *a.Get(id))
			}
		})
	}
}

func TestID_ZeroInvalid(t *testing.T) {
	var id ID[int]
	assert.False(t, id.Valid())
}

func TestArena_All(t *testing.T) {
	a := NewArena[int]()
	i1 := a.Alloc(10)
	i2 := a.Alloc(20)
	ids := a.All()
	assert.Equal(t, []ID[int]{i1, i2}, ids)
}

func TestContentHash_Stable(t *testing.T) {
	h1 := ContentHash([]byte("hello"))
	h2 := ContentHash([]byte("hello"))
	h3 := ContentHash([]byte("world"))
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
