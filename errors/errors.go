package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors of the "weave" codespace. Extensions reuse them and declare
// their own only for failures no root error describes.
var (
	ErrUnauthorized = root.add(2, "unauthorized", false)
	ErrNotFound     = root.add(3, "not found", false)
	ErrInvalidMsg   = root.add(4, "invalid message", false)
	ErrInvalidModel = root.add(5, "invalid model", false)
	ErrDuplicate    = root.add(6, "duplicate", false)

	// ErrHuman marks a code path that is reachable only through a
	// programming mistake.
	ErrHuman = root.add(7, "coding error", false)

	ErrEmpty        = root.add(9, "value is empty", false)
	ErrInvalidState = root.add(10, "invalid state", false)
	ErrInvalidType  = root.add(11, "invalid type", false)

	// ErrInsufficientAmount is returned when a wallet holds less than a
	// transfer needs.
	ErrInsufficientAmount = root.add(12, "insufficient amount", false)

	// ErrInvalidAmount is returned for zero or negative amounts where a
	// positive one is required.
	ErrInvalidAmount = root.add(13, "invalid amount", false)

	ErrInvalidInput = root.add(14, "invalid input", false)
	ErrOverflow     = root.add(16, "value overflow", false)

	// ErrDatabase is returned when the store fails or holds data that
	// cannot be decoded. Its details are not shown to clients.
	ErrDatabase = root.add(17, "database", true)

	// ErrCurrency is returned when coins of different tickers are combined.
	ErrCurrency = root.add(18, "currency", false)

	// ErrIteratorDone ends every store iteration.
	ErrIteratorDone = root.add(19, "iterator done", false)

	// ErrPanic wraps a recovered panic. Its details are not shown to
	// clients.
	ErrPanic = root.add(111222, "panic", true)
)

// root owns the codes up to 19. Code 1 is the internal error code given
// to errors that carry none.
var root = &Codespace{name: "weave", from: 1, to: 19}

var (
	codespaces = map[string]*Codespace{}
	usedCodes  = map[uint32]*Error{}
)

// Codespace is a range of ABCI codes owned by one extension. Clients read
// the name from the Codespace field of a response.
type Codespace struct {
	name     string
	from, to uint32
}

// NewCodespace reserves codes from..to for the extension name. It panics
// when the name is taken or the range overlaps another codespace, so call
// it only while the program initializes.
func NewCodespace(name string, from, to uint32) *Codespace {
	if name == "" || from > to {
		panic(fmt.Sprintf("invalid codespace %q %d..%d", name, from, to))
	}
	all := []*Codespace{root}
	for _, c := range codespaces {
		all = append(all, c)
	}
	for _, c := range all {
		if c.name == name {
			panic(fmt.Sprintf("codespace %q is already registered", name))
		}
		if from <= c.to && c.from <= to {
			panic(fmt.Sprintf("codespace %q %d..%d overlaps %q %d..%d", name, from, to, c.name, c.from, c.to))
		}
	}
	c := &Codespace{name: name, from: from, to: to}
	codespaces[name] = c
	return c
}

// Name of the codespace.
func (c *Codespace) Name() string {
	return c.name
}

// Register declares a root error of the codespace. It panics when code is
// outside the reserved range or already used.
func (c *Codespace) Register(code uint32, description string) *Error {
	if code < c.from || code > c.to {
		panic(fmt.Sprintf("code %d is outside of codespace %q %d..%d", code, c.name, c.from, c.to))
	}
	return c.add(code, description, false)
}

func (c *Codespace) add(code uint32, description string, redact bool) *Error {
	if code <= 1 {
		panic(fmt.Sprintf("code %d is reserved", code))
	}
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	e := &Error{codespace: c.name, code: code, desc: description, redact: redact}
	usedCodes[code] = e
	return e
}

// Error is a root error. Errors created at runtime wrap one of them, so the
// kind survives any amount of added context.
type Error struct {
	codespace string
	code      uint32
	desc      string
	// redact hides everything but desc from clients.
	redact bool
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

func (e Error) Codespace() string {
	return e.codespace
}

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is reports whether err is kind or wraps it. A nil kind matches only nil
// errors, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return errIsNil(err)
	}
	for {
		if err == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
}

// Wrap adds description to err. The innermost wrap records a stack trace.
// Wrapping nil returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace of the innermost wrap for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover turns a panic into an ErrPanic assigned to err. Defer it.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
