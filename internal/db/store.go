package db

import "context"

// Store is the document-store client every repository is written against.
// Paths are slash-separated and alternate collection and document IDs
// (e.g. "clubs/{clubId}/members/{memberId}").
//
// FirestoreStore is the production implementation; MemoryStore mirrors its
// semantics in-process.
type Store interface {
	// NewID returns a fresh document ID.
	NewID() string
	// Get decodes the document at path into dst. A missing document is not an
	// error: found is false and dst is left untouched.
	Get(ctx context.Context, path string, dst any) (found bool, err error)
	// Create writes a new document and fails with ErrAlreadyExists if one is
	// already there.
	Create(ctx context.Context, path string, data any) error
	// Set replaces the document at path, creating it if needed.
	Set(ctx context.Context, path string, data any) error
	// Update applies field-path updates to an existing document and fails
	// with ErrNotFound if it does not exist.
	Update(ctx context.Context, path string, updates []Update) error
	// Delete removes the document at path. Deleting a missing document is a
	// no-op.
	Delete(ctx context.Context, path string) error
	// Query runs q and returns the matching documents in query order.
	Query(ctx context.Context, q Query) ([]Snapshot, error)
	// RunTransaction runs fn so that all of its writes commit atomically or
	// not at all. All reads inside fn must happen before its first write.
	// fn may be invoked more than once on contention.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}

// Tx is the view of the store inside a transaction. Reads see the state the
// transaction started from; writes are staged until commit.
type Tx interface {
	Get(path string, dst any) (found bool, err error)
	Query(q Query) ([]Snapshot, error)
	Create(path string, data any) error
	Set(path string, data any) error
	Update(path string, updates []Update) error
	Delete(path string) error
}

// Update assigns Value to the (dot-separated) field Path. Value may be one of
// the transforms Increment, ServerTimestamp, ArrayUnion, ArrayRemove or
// DeleteField.
type Update struct {
	Path  string
	Value any
}

type incrementTransform struct{ n int64 }

type serverTimestampTransform struct{}

type arrayUnionTransform struct{ elems []any }

type arrayRemoveTransform struct{ elems []any }

type deleteFieldTransform struct{}

// Increment atomically adds n to a numeric field.
func Increment(n int64) any { return incrementTransform{n: n} }

// ServerTimestamp sets a time field to the commit time.
var ServerTimestamp any = serverTimestampTransform{}

// DeleteField removes the field (resets it to its zero value).
var DeleteField any = deleteFieldTransform{}

// ArrayUnion adds each element to an array field unless already present.
func ArrayUnion(elems ...any) any { return arrayUnionTransform{elems: elems} }

// ArrayRemove removes every occurrence of each element from an array field.
func ArrayRemove(elems ...any) any { return arrayRemoveTransform{elems: elems} }

// Query describes a collection (or collection group) read.
type Query struct {
	// Collection is a collection path, or a bare collection ID when Group is
	// set.
	Collection string
	// Group scans every collection with that ID, across all parents.
	Group   bool
	Filters []Filter
	Orders  []Order
	Limit   int
	// StartAfter is the full path of the document the results resume after.
	StartAfter string
}

// Filter restricts a query on one field. Op is one of ==, !=, <, <=, >, >=,
// array-contains or in.
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// Order sorts a query by one field.
type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// Snapshot is one document returned by a query.
type Snapshot struct {
	Path   string
	ID     string
	decode func(dst any) error
}

// DataTo decodes the document into dst.
func (s Snapshot) DataTo(dst any) error { return s.decode(dst) }

var supportedOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"array-contains": true, "in": true,
}
