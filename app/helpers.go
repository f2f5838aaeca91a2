package app

import (
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/iov-one/weave-swap/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore is a read only store backed by ABCI queries, so buckets can be
// used on top of a running application the same way as on a local store.
// Only the raw "/" query path is used.
type ABCIStore struct {
	app abci.Application
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	res := a.app.Query(abci.RequestQuery{Path: "/", Data: key})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %d: %s", res.Code, res.Log)
	}
	var values ResultSet
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	switch len(values.Results) {
	case 0:
		return nil, nil
	case 1:
		return values.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "%d values for one key", len(values.Results))
	}
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator supports prefix ranges only, as that is what the query
// interface can express. The end must be the prefix end of start.
func (a *ABCIStore) Iterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.prefix(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) ReverseIterator(start, end []byte) (weave.Iterator, error) {
	models, err := a.prefix(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefix(start, end []byte) ([]weave.Model, error) {
	if !isPrefixRange(start, end) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "only prefix ranges are supported")
	}
	res := a.app.Query(abci.RequestQuery{Path: "/?prefix", Data: start})
	if res.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query %d: %s", res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

// isPrefixRange reports whether [start, end) covers exactly the keys that
// start with start.
func isPrefixRange(start, end []byte) bool {
	if end == nil {
		for _, b := range start {
			if b != 0xff {
				return false
			}
		}
		return true
	}
	want := append([]byte(nil), start...)
	for len(want) > 0 {
		last := len(want) - 1
		if want[last] != 0xff {
			want[last]++
			break
		}
		want = want[:last]
	}
	return string(want) == string(end)
}

func toModels(keys, values []byte) ([]weave.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return JoinResults(&k, &v)
}
