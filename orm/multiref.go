package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/weave-swap/codec"
	"github.com/iov-one/weave-swap/errors"
)

// MultiRef is a sorted set of references. Non unique indexes store one per
// index value.
type MultiRef struct {
	Refs [][]byte
}

// NewMultiRef returns a set holding given references.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := &MultiRef{}
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MultiRef) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *MultiRef) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, m)
}

// Add inserts ref keeping the order. Adding a present ref fails with
// ErrDuplicate.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.find(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref. Removing a missing ref fails with ErrNotFound.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.find(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

func (m *MultiRef) find(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}
