package errors

import "fmt"

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	internalABCICode      uint32 = 1
	internalABCICodespace        = "undefined"
	internalABCILog              = "internal error"
)

// ABCIInfo translates err into the codespace, code and log of an ABCI
// response.
//
// Errors that do not wrap a registered root error are internal: they get
// code 1 and, unless debug is set, a generic log. Root errors that hide
// their details (ErrPanic, ErrDatabase) expose only their description. In
// debug mode the log carries the full message with a stack trace.
func ABCIInfo(err error, debug bool) (codespace string, code uint32, log string) {
	if errIsNil(err) {
		return "", SuccessABCICode, ""
	}
	kind := rootOf(err)
	switch {
	case debug:
		log = fmt.Sprintf("%+v", err)
	case kind == nil:
		log = internalABCILog
	case kind.redact:
		log = kind.desc
	default:
		log = err.Error()
	}
	if kind == nil {
		return internalABCICodespace, internalABCICode, log
	}
	return kind.codespace, kind.code, log
}

// rootOf returns the registered error wrapped by err, or nil.
func rootOf(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}
