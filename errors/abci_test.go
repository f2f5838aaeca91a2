package errors_test

import (
	"io"
	"strings"
	"testing"

	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/x/escrow"
	"github.com/iov-one/weave-swap/x/pda"
	"github.com/iov-one/weave-swap/x/sigs"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err           error
		debug         bool
		wantCodespace string
		wantCode      uint32
		wantLog       string
		// wantLogPrefix is used when the log carries a stack trace.
		wantLogPrefix string
	}{
		"success": {
			err: nil,
		},
		"typed nil is success": {
			err: (*errors.Error)(nil),
		},
		"root error": {
			err:           errors.Wrap(errors.ErrInsufficientAmount, "deposit"),
			wantCodespace: "weave",
			wantCode:      12,
			wantLog:       "deposit: insufficient amount",
		},
		"escrow error": {
			err:           errors.Wrapf(escrow.ErrAlreadyCompleted, "escrow %X", []byte{1, 2}),
			wantCodespace: "escrow",
			wantCode:      1020,
			wantLog:       "escrow 0102: escrow already completed",
		},
		"pda error": {
			err:           errors.Wrap(pda.ErrNoViableBump, "vault"),
			wantCodespace: "pda",
			wantCode:      1031,
			wantLog:       "vault: no viable bump",
		},
		"sigs error": {
			err:           sigs.ErrInvalidSequence,
			wantCodespace: "sigs",
			wantCode:      20,
			wantLog:       "invalid sequence",
		},
		"panic details are hidden": {
			err:           errors.Wrap(errors.ErrPanic, "runtime error: index out of range"),
			wantCodespace: "weave",
			wantCode:      111222,
			wantLog:       "panic",
		},
		"database details are hidden": {
			err:           errors.Wrap(errors.ErrDatabase, "leveldb: closed"),
			wantCodespace: "weave",
			wantCode:      17,
			wantLog:       "database",
		},
		"panic details in debug mode": {
			err:           errors.Wrap(errors.ErrPanic, "runtime error"),
			debug:         true,
			wantCodespace: "weave",
			wantCode:      111222,
			wantLogPrefix: "runtime error: panic",
		},
		"internal error": {
			err:           errors.Wrap(io.EOF, "read escrow"),
			wantCodespace: "undefined",
			wantCode:      1,
			wantLog:       "internal error",
		},
		"internal error in debug mode": {
			err:           errors.Wrap(io.EOF, "read escrow"),
			debug:         true,
			wantCodespace: "undefined",
			wantCode:      1,
			wantLogPrefix: "read escrow: EOF",
		},
		"unwrapped stdlib error in debug mode": {
			err:           io.EOF,
			debug:         true,
			wantCodespace: "undefined",
			wantCode:      1,
			wantLog:       "EOF",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			space, code, log := errors.ABCIInfo(tc.err, tc.debug)
			if space != tc.wantCodespace {
				t.Errorf("want %q codespace, got %q", tc.wantCodespace, space)
			}
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if tc.wantLogPrefix != "" {
				if !strings.HasPrefix(log, tc.wantLogPrefix) {
					t.Errorf("want log starting with %q, got %q", tc.wantLogPrefix, log)
				}
				return
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}
