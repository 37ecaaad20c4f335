package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitmap(t *testing.T) {
	s := MakeBitmap(10)

	assert.Equal(t, 0, s.Size())
	assert.False(t, s.IsSet(3))

	assert.False(t, s.Set(3))
	assert.True(t, s.Set(3))
	assert.False(t, s.Set(0))
	assert.False(t, s.Set(200))

	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(199))
	assert.False(t, s.IsSet(1000))

	assert.Equal(t, 3, s.Size())

	var got []int

	s.Range(func(i int) bool {
		got = append(got, i)
		return true
	})

	assert.Equal(t, []int{0, 3, 200}, got)

	got = got[:0]

	s.Range(func(i int) bool {
		got = append(got, i)
		return i < 3
	})

	assert.Equal(t, []int{0, 3}, got)
}

func TestBitmapZero(t *testing.T) {
	var s Bitmap

	assert.False(t, s.IsSet(5))
	assert.Equal(t, 0, s.Size())

	s.Set(70)

	assert.True(t, s.IsSet(70))
	assert.Equal(t, 1, s.Size())
}
