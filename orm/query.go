package orm

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
)

// queryPrefix returns all pairs whose key starts with prefix.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.ReadAll(it)
}

// prefixEnd returns the smallest key greater than all keys starting with
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RawQuery answers queries on the store keys as they are, without a
// bucket prefix.
type RawQuery struct{}

var _ weave.QueryHandler = RawQuery{}

// RegisterRawQuery makes the whole store readable under "/".
func RegisterRawQuery(qr weave.QueryRouter) {
	qr.Register("/", RawQuery{})
}

func (RawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		val, err := db.Get(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if val == nil {
			return nil, nil
		}
		return []weave.Model{weave.Pair(data, val)}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query mode %q", mod)
	}
}
