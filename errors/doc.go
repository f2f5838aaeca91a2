/*
Package errors implements custom error interfaces for weave.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions such as x/escrow
declare their own root errors using Register(code, description); codes below
1000 are reserved for this package.

Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly. Use ABCIInfo to translate any error
into the code and log returned over ABCI. Errors that do not carry a code are
considered internal and their message is redacted unless running in debug
mode.

Please ensure you create the custom error using ErrXyz.New("...") or
errors.Wrap(err, "...") at the point of creation to ensure we attach a
stacktrace. If you wrap multiple times, we only record the first wrap with the
stacktrace.
*/
package errors
