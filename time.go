package weave

import (
	"encoding/json"
	"time"

	"github.com/iov-one/weave-swap/errors"
)

// UnixTime is a point in time with a second precision. Block times are
// recorded in this form so that all nodes serialize them identically.
type UnixTime int64

// AsUnixTime converts t, dropping sub second precision.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t UnixTime) IsZero() bool {
	return t == 0
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "time before epoch")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().Format(time.RFC3339)
}

// UnmarshalJSON accepts either a number of seconds or an RFC3339 string.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var secs int64
	if err := json.Unmarshal(raw, &secs); err == nil {
		*t = UnixTime(secs)
		return t.Validate()
	}
	var std time.Time
	if err := json.Unmarshal(raw, &std); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
	}
	*t = AsUnixTime(std)
	return t.Validate()
}

// BlockUnixTime returns the block time of the context as UnixTime.
func BlockUnixTime(ctx Context) (UnixTime, error) {
	t, err := BlockTime(ctx)
	if err != nil {
		return 0, err
	}
	return AsUnixTime(t), nil
}
