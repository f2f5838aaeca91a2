package weave

import "github.com/iov-one/weave-swap/errors"

// Metadata is carried by every persisted model and every message. Schema
// is the version of the serialized structure and must be set.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "schema version is required")
	}
	return nil
}

// Copy returns a deep copy of the metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
