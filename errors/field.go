package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field describes an invalid attribute of a model or a message. It returns
// nil when err is nil, so that validation can be written as a sequence of
// AppendField calls.
//
// Field names follow the Go struct field names. Nested attributes are joined
// with a dot and list elements use their index, for example
//
//	Winners.2
//	Entries.0.Amount
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: name, desc: description, parent: err}
}

// AppendField adds the error of the named field to errs. Nothing is added
// when fieldErr is nil.
func AppendField(errs error, name string, fieldErr error) error {
	return Append(errs, Field(name, fieldErr, ""))
}

type fieldError struct {
	name   string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.name, e.parent)
}

func (e *fieldError) Cause() error { return e.parent }

func (e *fieldError) Field() string { return e.name }

type fielder interface {
	Field() string
}

// FieldErrors returns all errors reported for the named field. Wrapped and
// multi errors are searched. A field error is returned as a whole, errors
// nested inside of a matching field error are not reported again.
func FieldErrors(err error, name string) []error {
	var found []error
	collectField(err, name, &found)
	return found
}

func collectField(err error, name string, found *[]error) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok && f.Field() == name {
			*found = append(*found, err)
			return
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				collectField(e, name, found)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
