package store

import (
	"bytes"

	"github.com/iov-one/fundpool/errors"
)

// SliceIterator iterates over a preloaded, ordered collection of models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next key-value pair or ErrIteratorDone.
func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the Iterator.
func (s *SliceIterator) Release() {
	s.data = nil
}

// ReadAll consumes given iterator and returns all models it yields. The
// iterator is released.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Pair(key, value))
	}
}

// mergeIterators combines the changes recorded in a cache with the content
// of the parent store. Changes are ordered ascending. Parent must be ordered
// ascending, or descending when reverse is set. Recorded changes override
// parent values and deleted changes hide them.
func mergeIterators(changes []item, parent Iterator, reverse bool) (Iterator, error) {
	back, err := ReadAll(parent)
	if err != nil {
		return nil, err
	}

	if reverse {
		for i, j := 0, len(changes)-1; i < j; i, j = i+1, j-1 {
			changes[i], changes[j] = changes[j], changes[i]
		}
	}

	// before reports whether a sorts before b in the iteration order.
	before := func(a, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) > 0
		}
		return bytes.Compare(a, b) < 0
	}

	res := make([]Model, 0, len(back)+len(changes))
	var i, j int
	for i < len(changes) || j < len(back) {
		switch {
		case j >= len(back) || (i < len(changes) && before(changes[i].key, back[j].Key)):
			if !changes[i].deleted {
				res = append(res, Pair(changes[i].key, changes[i].value))
			}
			i++
		case i >= len(changes) || before(back[j].Key, changes[i].key):
			res = append(res, back[j])
			j++
		default:
			// Same key, the change wins.
			if !changes[i].deleted {
				res = append(res, Pair(changes[i].key, changes[i].value))
			}
			i++
			j++
		}
	}
	return NewSliceIterator(res), nil
}
