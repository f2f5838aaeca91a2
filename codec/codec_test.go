package codec

import (
	"testing"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/weavetest/assert"
)

type pingMsg struct {
	Metadata *weave.Metadata
	Text     string
	Nonce    uint64
}

func (m *pingMsg) Marshal() ([]byte, error)  { return Marshal(m) }
func (m *pingMsg) Unmarshal(bz []byte) error { return Unmarshal(bz, m) }
func (m *pingMsg) Path() string              { return "test/ping" }
func (m *pingMsg) Validate() error           { return m.Metadata.Validate() }

type envelope struct {
	Msg weave.Msg
}

func init() {
	RegisterMsg(&pingMsg{}, "test/ping")
}

func TestInterfaceRoundtrip(t *testing.T) {
	in := envelope{Msg: &pingMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Text:     "hello",
		Nonce:    7,
	}}
	bz, err := Marshal(in)
	assert.Nil(t, err)

	var out envelope
	assert.Nil(t, Unmarshal(bz, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, "test/ping", out.Msg.Path())

	js, err := MarshalJSON(in)
	assert.Nil(t, err)
	var fromJSON envelope
	assert.Nil(t, UnmarshalJSON(js, &fromJSON))
	assert.Equal(t, in, fromJSON)
}

func TestUnmarshalGarbage(t *testing.T) {
	var out envelope
	err := Unmarshal([]byte{0xff, 0xff, 0xff}, &out)
	assert.IsErr(t, errors.ErrInvalidModel, err)
}
