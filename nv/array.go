package nv

import "github.com/scigolib/zpool/xdr"

// ArrayDecoder is a restartable lazy sequence of T over a carved payload
// slice. Exhaustion returns EndOfArrayError, distinguishing "past the last
// element" from truncated input.
type ArrayDecoder[T any] struct {
	decoder *xdr.Decoder
	count   int
	index   int
	get     func(*xdr.Decoder) (T, error)
}

func newArrayDecoder[T any](data []byte, count int, get func(*xdr.Decoder) (T, error)) *ArrayDecoder[T] {
	return &ArrayDecoder[T]{
		decoder: xdr.NewDecoder(data),
		count:   count,
		get:     get,
	}
}

// Capacity returns the number of elements in the entire array.
func (a *ArrayDecoder[T]) Capacity() int {
	return a.count
}

// Len returns the number of elements still to be decoded.
func (a *ArrayDecoder[T]) Len() int {
	if a.index > a.count {
		return 0
	}
	return a.count - a.index
}

// Reset moves the decoder back to the first element.
func (a *ArrayDecoder[T]) Reset() {
	a.decoder.Reset()
	a.index = 0
}

// Get returns the next element. Call while Len is greater than zero.
func (a *ArrayDecoder[T]) Get() (T, error) {
	var zero T
	if a.index >= a.count {
		return zero, &EndOfArrayError{}
	}
	a.index++
	return a.get(a.decoder)
}
