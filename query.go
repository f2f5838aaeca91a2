package weave

import "fmt"

const (
	// KeyQueryMod returns the model stored under the exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns all models whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries against a read only view of the state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds handlers to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches a query to the handler registered for its path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, fn := range qr {
		fn(r)
	}
}

// Register adds a handler for given path. It panics if the path is taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler for given path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
