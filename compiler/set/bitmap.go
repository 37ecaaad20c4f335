package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Bitmap is a growable set of small non-negative ints.
	Bitmap struct {
		b  []uint64
		b0 [1]uint64
	}
)

func MakeBitmap(n int) Bitmap {
	s := Bitmap{}
	s.b = s.b0[:]

	s.grow((n + 63) / 64)

	return s
}

// Set adds i and reports whether it was already present.
func (s *Bitmap) Set(i int) (was bool) {
	i, j := s.ij(i)

	s.grow(i + 1)

	was = s.b[i]&(1<<j) != 0
	s.b[i] |= 1 << j

	return was
}

func (s *Bitmap) IsSet(i int) bool {
	i, j := s.ij(i)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s *Bitmap) Size() (r int) {
	if s == nil {
		return 0
	}

	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

func (s *Bitmap) Range(f func(i int) bool) {
	for i, x := range s.b {
		for x != 0 {
			j := bits.TrailingZeros64(x)
			x &^= 1 << j

			if !f(i*64 + j) {
				return
			}
		}
	}
}

func (s Bitmap) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)

		return true
	})

	return e.AppendBreak(b)
}

func (s *Bitmap) ij(pos int) (i int, j int) {
	return pos / 64, pos % 64
}

func (s *Bitmap) grow(n int) {
	for n > len(s.b) {
		s.b = append(s.b, 0)
	}
}
