// Package assert contains the assertions used by the fundpool tests. Every
// failed assertion stops the test.
package assert

import (
	"encoding/binary"
	"reflect"
	"strconv"

	"github.com/iov-one/fundpool/errors"
)

// Tester is the subset of testing.TB used by the assertions.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Nil fails the test if value is not nil. A nil pointer, slice or map held
// by an interface is nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace of an error.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Equal fails the test if the two values are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got is of the kind of want. Registered errors
// are compared with their Is method, so wrapped errors match.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldError fails the test unless err holds exactly one error for the named
// field and that error is of the kind of want. Use a nil want to ensure that
// the field is valid.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	switch {
	case want == nil && len(errs) == 0:
		return
	case want == nil:
		t.Fatalf("want field %q to be valid, got %q", field, errs)
	case len(errs) == 0:
		t.Fatalf("no error for field %q in %+v", field, err)
	case len(errs) > 1:
		t.Fatalf("want one error for field %q, got %d: %q", field, len(errs), errs)
	case !want.Is(errs[0]):
		t.Fatalf("want field %q error %q, got %q", field, want, errs[0])
	}
}

// Amount fails the test unless data, the result of a distribution, is the
// decimal representation of want.
func Amount(t Tester, want int64, data []byte) {
	t.Helper()
	got, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		t.Fatalf("result %q is not an amount: %s", data, err)
		return
	}
	if got != want {
		t.Fatalf("want amount %d, got %d", want, got)
	}
}

// Sequence fails the test unless id, the result of a pool or receipt
// creation, is the sequence value want.
func Sequence(t Tester, want uint64, id []byte) {
	t.Helper()
	if len(id) != 8 {
		t.Fatalf("want an 8 byte sequence id, got %d bytes: %x", len(id), id)
		return
	}
	if got := binary.BigEndian.Uint64(id); got != want {
		t.Logf("id %x", id)
		t.Fatalf("want sequence %d, got %d", want, got)
	}
}
