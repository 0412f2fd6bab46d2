package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutTakeFIFO(t *testing.T) {
	b := New(3)
	b.Put(1)
	b.Put(2)
	b.Put(3)

	assert.Equal(t, 1, b.Take())
	assert.Equal(t, 2, b.Take())
	assert.Equal(t, 3, b.Take())
}

func TestWrapsAround(t *testing.T) {
	b := New(2)
	b.Put("a")
	assert.Equal(t, "a", b.Take())
	b.Put("b")
	b.Put("c")
	assert.Equal(t, "b", b.Take())
	assert.Equal(t, "c", b.Take())
}

func TestTakeClearsSlot(t *testing.T) {
	b := New(1)
	b.Put(42)
	b.Take()
	assert.Nil(t, b.sendCursor.val, "slot must be zeroed after Take so a retained reference can't pin it")
}

func TestNewNonPositiveReturnsNil(t *testing.T) {
	assert.Nil(t, New(0))
	assert.Nil(t, New(-1))
	assert.Equal(t, 0, (*Buffer)(nil).Len())
}

func TestLenIsFixedCapacity(t *testing.T) {
	b := New(5)
	assert.Equal(t, 5, b.Len())
	b.Put(1)
	assert.Equal(t, 5, b.Len())
}
