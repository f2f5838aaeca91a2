package store

import (
	"bytes"

	"github.com/iov-one/weave-swap/errors"
)

// sliceIterator walks a materialized list of pairs.
type sliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*sliceIterator)(nil)

// NewSliceIterator returns an iterator over given pairs, in the given order.
func NewSliceIterator(data []Model) Iterator {
	return &sliceIterator{data: data}
}

func (s *sliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

func (s *sliceIterator) Release() {
	s.data = nil
}

// ReadAll drains the iterator and releases it.
func ReadAll(it Iterator) ([]Model, error) {
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, Pair(k, v))
	}
}

// inRange reports whether key falls into [start, end). Nil bounds are open.
func inRange(key, start, end []byte) bool {
	if start != nil && bytes.Compare(key, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(key, end) >= 0 {
		return false
	}
	return true
}

// mergeItems overlays cached writes on top of the parent content, both
// sorted ascending. Deleted items hide the parent value.
func mergeItems(parent []Model, cached []keyer) []Model {
	res := make([]Model, 0, len(parent)+len(cached))
	i, j := 0, 0
	for i < len(parent) || j < len(cached) {
		var cmp int
		switch {
		case i == len(parent):
			cmp = 1
		case j == len(cached):
			cmp = -1
		default:
			cmp = bytes.Compare(parent[i].Key, cached[j].Key())
		}

		if cmp < 0 {
			res = append(res, parent[i])
			i++
			continue
		}
		if set, ok := cached[j].(setItem); ok {
			res = append(res, Pair(set.key, set.value))
		}
		if cmp == 0 {
			i++
		}
		j++
	}
	return res
}

// reverseInPlace reverses the order of models and returns the same slice.
func reverseInPlace(models []Model) []Model {
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return models
}
