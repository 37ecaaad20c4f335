package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelational(t *testing.T) {
	for _, op := range []BinaryOperator{Eq, Ne, Lt, Le, Gt, Ge} {
		assert.True(t, op.Relational(), "%v", op)
	}

	for _, op := range []BinaryOperator{Add, Sub, Mul, Div, Rem, And, Or} {
		assert.False(t, op.Relational(), "%v", op)
	}
}

func TestOperatorNames(t *testing.T) {
	op, ok := ParseBinaryOperator("Le")
	assert.True(t, ok)
	assert.Equal(t, Le, op)
	assert.Equal(t, "Le", op.String())

	_, ok = ParseUnaryOperator("Plus")
	assert.False(t, ok)
}
