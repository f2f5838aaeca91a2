package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
)

// ResultSet is the query response envelope. Keys and values of a query are
// returned as two ResultSets of equal length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

var _ proto.Message = (*ResultSet)(nil)

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// resultsField is the field number of Results.
const resultsField = 1

// Marshal writes the protobuf encoding. It is spelled out, as the message
// implements proto.Marshaler itself.
func (m *ResultSet) Marshal() ([]byte, error) {
	var out []byte
	for _, r := range m.Results {
		out = append(out, proto.EncodeVarint(uint64(resultsField<<3|proto.WireBytes))...)
		out = append(out, proto.EncodeVarint(uint64(len(r)))...)
		out = append(out, r...)
	}
	return out, nil
}

func (m *ResultSet) Unmarshal(bz []byte) error {
	m.Results = nil
	for len(bz) > 0 {
		tag, n := proto.DecodeVarint(bz)
		if n == 0 {
			return errors.Wrap(errors.ErrInvalidInput, "malformed tag")
		}
		bz = bz[n:]
		if tag&7 != proto.WireBytes {
			return errors.Wrapf(errors.ErrInvalidInput, "wire type %d", tag&7)
		}
		size, n := proto.DecodeVarint(bz)
		if n == 0 || size > uint64(len(bz)-n) {
			return errors.Wrap(errors.ErrInvalidInput, "malformed length")
		}
		val := append([]byte{}, bz[n:n+int(size)]...)
		bz = bz[n+int(size):]
		if tag>>3 == resultsField {
			m.Results = append(m.Results, val)
		}
	}
	return nil
}

// ResultsFromKeys collects the keys of given models.
func ResultsFromKeys(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues collects the values of given models.
func ResultsFromValues(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults zips key and value sets back into models.
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInvalidInput,
			"%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]weave.Model, len(keys.Results))
	for i := range models {
		models[i] = weave.Pair(keys.Results[i], values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first value of a result set into o. An
// empty set leaves o untouched and returns ErrNotFound.
func UnmarshalOneResult(bz []byte, o weave.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.ErrNotFound
	}
	return o.Unmarshal(res.Results[0])
}
