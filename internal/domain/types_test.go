package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationWindow(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize}, p)

	p = NewPagination(2, 3)
	start, end := p.Window(7)
	assert.Equal(t, [2]int{3, 6}, [2]int{start, end})
	assert.Equal(t, 7, p.Total)

	p = NewPagination(3, 3)
	start, end = p.Window(7)
	assert.Equal(t, [2]int{6, 7}, [2]int{start, end})

	p = NewPagination(9, 500)
	assert.Equal(t, MaxPageSize, p.PageSize)
	start, end = p.Window(7)
	assert.Equal(t, [2]int{7, 7}, [2]int{start, end})
}

func TestPaginationWindowHugePage(t *testing.T) {
	p := NewPagination(math.MaxInt, 20)
	start, end := p.Window(3)
	assert.Equal(t, [2]int{3, 3}, [2]int{start, end})

	p = NewPagination(math.MaxInt/20+2, 20)
	start, end = p.Window(math.MaxInt - 5)
	assert.LessOrEqual(t, 0, start)
	assert.LessOrEqual(t, start, end)

	var zero Pagination
	start, end = zero.Window(4)
	assert.Equal(t, [2]int{0, 4}, [2]int{start, end})
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsConflict(ConflictError{Seats: []int{1}}))
	assert.True(t, IsAlreadyCancelled(AlreadyCancelledError{BookingID: "b"}))
	assert.EqualError(t, AlreadyCancelledError{BookingID: "b"}, "booking b is already cancelled")
	assert.EqualError(t, ValidationError{Field: "seats", Msg: "bad"}, "seats: bad")
	assert.EqualError(t, NotFoundError{Resource: "bus"}, "bus not found")
	assert.True(t, IsStorage(StorageError{Op: "decode"}))
	assert.False(t, IsNotFound(ValidationError{}))
}
