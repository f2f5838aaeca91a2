package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("vault closed")

	cases := map[string]struct {
		err  error
		root error
	}{
		"root error is its own cause": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"wrap keeps the root": {
			err:  Wrapf(Wrap(ErrInsufficientAmount, "deposit"), "escrow %d", 7),
			root: ErrInsufficientAmount,
		},
		"stdlib root": {
			err:  Wrap(std, "close"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatalf("want %v, got %v", tc.root, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind   *Error
		err    error
		wantIs bool
	}{
		"same root": {
			kind:   ErrDuplicate,
			err:    ErrDuplicate,
			wantIs: true,
		},
		"other root": {
			kind:   ErrDuplicate,
			err:    ErrNotFound,
			wantIs: false,
		},
		"wrapped twice": {
			kind:   ErrInvalidAmount,
			err:    Wrap(Wrap(ErrInvalidAmount, "deposit"), "create"),
			wantIs: true,
		},
		"wrapped by pkg/errors": {
			kind:   ErrInvalidAmount,
			err:    errors.Wrap(ErrInvalidAmount, "expected"),
			wantIs: true,
		},
		"stdlib error": {
			kind:   ErrNotFound,
			err:    fmt.Errorf("not found"),
			wantIs: false,
		},
		"nil kind matches nil": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
		"nil kind matches typed nil": {
			kind:   nil,
			err:    (*Error)(nil),
			wantIs: true,
		},
		"nil kind does not match an error": {
			kind:   nil,
			err:    ErrNotFound,
			wantIs: false,
		},
		"kind does not match nil": {
			kind:   ErrNotFound,
			err:    nil,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "nothing"); err != nil {
		t.Fatal(err)
	}
	if err := Wrapf(nil, "nothing %d", 1); err != nil {
		t.Fatal(err)
	}
}

func TestCodespace(t *testing.T) {
	space := NewCodespace("codespacetest", 9000, 9009)
	if space.Name() != "codespacetest" {
		t.Fatalf("unexpected name %q", space.Name())
	}
	e := space.Register(9000, "first")
	if e.Codespace() != "codespacetest" || e.ABCICode() != 9000 {
		t.Fatalf("unexpected error %s/%d", e.Codespace(), e.ABCICode())
	}
	if ErrNotFound.Codespace() != "weave" {
		t.Fatalf("root errors belong to weave, got %q", ErrNotFound.Codespace())
	}

	cases := map[string]func(){
		"code outside of the range":   func() { space.Register(9010, "outside") },
		"code used twice":             func() { space.Register(9000, "again") },
		"name used twice":             func() { NewCodespace("codespacetest", 9100, 9109) },
		"range overlaps another":      func() { NewCodespace("overlap", 9005, 9100) },
		"range overlaps root errors":  func() { NewCodespace("low", 15, 25) },
		"reversed range":              func() { NewCodespace("reversed", 9209, 9200) },
		"internal code is not usable": func() { root.add(1, "internal", false) },
	}
	for testName, fn := range cases {
		t.Run(testName, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("panic expected")
				}
			}()
			fn()
		})
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("vault is nil")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %v", err)
	}
	if err.Error() != "vault is nil: panic" {
		t.Fatalf("unexpected message %q", err)
	}
}
