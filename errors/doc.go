/*
Package errors implements custom error interfaces for fundpool.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions register their own
root errors with Register(code, description), for example
x/distribution declares ErrNotWinner and ErrAlreadyClaimed.

For reusing errors use ErrXyz.New and ErrXyz.Newf, or Wrap and Wrapf. Code
stands for ABCI error code, which allows to distinguish types of errors on the
client side and act accordingly.

A stack trace is attached by the most inner Wrap call. Once you have an error,
use fmt.Printf with %+v to print it together with the stack trace.

Field errors (see Field and AppendField) describe invalid attributes of a
model or a message and can be looked up with FieldErrors.
*/
package errors
