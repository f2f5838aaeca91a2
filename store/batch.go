package store

import "github.com/iov-one/weave-swap/errors"

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is a single recorded write.
type Op struct {
	kind  opKind
	key   []byte
	value []byte
}

func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// IsSetOp returns true for a set and false for a delete.
func (o Op) IsSetOp() bool {
	return o.kind == setKind
}

func (o Op) Key() []byte {
	return o.key
}

func (o Op) Value() []byte {
	return o.value
}

// Apply executes the operation on given store.
func (o Op) Apply(out KVStore) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return errors.Wrapf(errors.ErrHuman, "unknown op kind %d", o.kind)
	}
}

// NonAtomicBatch records writes in memory and replays them one by one on
// Write. It is atomic only when the target store cannot fail, which holds
// for the in memory stores it is used with.
type NonAtomicBatch struct {
	out KVStore
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out KVStore) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write replays all recorded operations and clears the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// Reset drops all recorded operations.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// ShowOps returns the recorded operations in order.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
