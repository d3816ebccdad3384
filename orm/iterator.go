package orm

import (
	"reflect"

	"github.com/iov-one/fundpool"
	"github.com/iov-one/fundpool/errors"
)

// ModelIterator allows to iterate over the models of a bucket.
type ModelIterator interface {
	// LoadNext loads the next entity into given destination and returns
	// its primary key. ErrIteratorDone is returned when there are no more
	// entities.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the iterator resources.
	Release()
}

type modelIterator struct {
	it        fundpool.Iterator
	prefixLen int
	model     reflect.Type
}

func (m *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if tp := reflect.TypeOf(dest); tp.Kind() != reflect.Ptr || tp.Elem() != m.model {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, m.model)
	}
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", m.model.Name(), err)
	}
	return key[m.prefixLen:], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}
