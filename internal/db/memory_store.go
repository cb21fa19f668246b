package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/status"

	"clubhub-backend-go/internal/models"
)

// MemoryStore is an in-process Store with Firestore's semantics: documents
// are private deep copies of the structs written, keyed by path; server
// timestamps and transforms are applied at commit; transactions are
// serialised under a single lock and commit all-or-nothing.
//
// Inside RunTransaction only the Tx may be used. Calling the store itself
// from a transaction function deadlocks.
type MemoryStore struct {
	mu        sync.Mutex
	docs      map[string]any
	now       func() time.Time
	failWrite func(op, path string) error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]any), now: time.Now}
}

// FailWrites installs a hook consulted for every write at commit time. A
// non-nil error aborts the whole commit, leaving the store unchanged. nil
// removes the hook.
func (s *MemoryStore) FailWrites(fn func(op, path string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = fn
}

// SetClock replaces the clock used for server timestamps.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Paths returns the sorted paths of every document under prefix.
func (s *MemoryStore) Paths(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for p := range s.docs {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (s *MemoryStore) NewID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

func (s *MemoryStore) Get(ctx context.Context, path string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, mapError("get", path, err)
	}
	if err := checkDocPath(path); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(path, dst)
}

func (s *MemoryStore) Create(ctx context.Context, path string, data any) error {
	return s.write(ctx, memWrite{op: "create", path: path, data: data})
}

func (s *MemoryStore) Set(ctx context.Context, path string, data any) error {
	return s.write(ctx, memWrite{op: "set", path: path, data: data})
}

func (s *MemoryStore) Update(ctx context.Context, path string, updates []Update) error {
	return s.write(ctx, memWrite{op: "update", path: path, updates: updates})
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	return s.write(ctx, memWrite{op: "delete", path: path})
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError("query", q.Collection, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(q)
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return mapError("transaction", "", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commitLocked(tx.writes)
}

func (s *MemoryStore) Close() error { return nil }

type memWrite struct {
	op      string
	path    string
	data    any
	updates []Update
}

func (s *MemoryStore) write(ctx context.Context, w memWrite) error {
	if err := ctx.Err(); err != nil {
		return mapError(w.op, w.path, err)
	}
	staged, err := stage(w)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked([]memWrite{staged})
}

// stage validates a write and takes a private copy of its payload.
func stage(w memWrite) (memWrite, error) {
	if err := checkDocPath(w.path); err != nil {
		return w, err
	}
	if w.op == "create" || w.op == "set" {
		doc, err := cloneValue(w.data)
		if err != nil {
			return w, fmt.Errorf("%s %s: %w", w.op, w.path, err)
		}
		w.data = doc
	}
	return w, nil
}

// commitLocked applies writes in order to a staging area and publishes them
// only if every write succeeded.
func (s *MemoryStore) commitLocked(writes []memWrite) error {
	now := s.now()
	staged := make(map[string]any)
	lookup := func(path string) (any, bool) {
		if doc, ok := staged[path]; ok {
			return doc, doc != nil
		}
		doc, ok := s.docs[path]
		return doc, ok
	}

	for _, w := range writes {
		if s.failWrite != nil {
			if err := s.failWrite(w.op, w.path); err != nil {
				if !errors.Is(err, ErrStorage) {
					err = &StorageError{Op: w.op, Path: w.path, Code: status.Code(err), Err: err}
				}
				return err
			}
		}
		existing, exists := lookup(w.path)
		switch w.op {
		case "create":
			if exists {
				return fmt.Errorf("create %s: %w", w.path, ErrAlreadyExists)
			}
			stampServerTimestamps(w.data, now)
			staged[w.path] = w.data
		case "set":
			stampServerTimestamps(w.data, now)
			staged[w.path] = w.data
		case "update":
			if !exists {
				return fmt.Errorf("update %s: %w", w.path, ErrNotFound)
			}
			doc, err := cloneValue(existing)
			if err != nil {
				return err
			}
			if err := applyUpdates(doc, w.updates, now); err != nil {
				return fmt.Errorf("update %s: %w", w.path, err)
			}
			// Detach any caller-owned pointers or slices assigned by the update.
			if doc, err = cloneValue(doc); err != nil {
				return err
			}
			staged[w.path] = doc
		case "delete":
			staged[w.path] = nil
		default:
			return fmt.Errorf("memory store: unknown write %q", w.op)
		}
	}

	for path, doc := range staged {
		if doc == nil {
			delete(s.docs, path)
		} else {
			s.docs[path] = doc
		}
	}
	return nil
}

func (s *MemoryStore) getLocked(path string, dst any) (bool, error) {
	doc, ok := s.docs[path]
	if !ok {
		return false, nil
	}
	if err := decodeInto(doc, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

type memRow struct {
	path string
	doc  any
}

func (s *MemoryStore) queryLocked(q Query) ([]Snapshot, error) {
	if q.Collection == "" {
		return nil, models.NewValidationError("collection", "is required")
	}
	for _, f := range q.Filters {
		if !supportedOps[f.Op] {
			return nil, models.NewValidationError("where", fmt.Sprintf("unsupported operator %q", f.Op))
		}
	}

	var rows []memRow
	for path, doc := range s.docs {
		if !inCollection(path, q) || !matchesAll(doc, q.Filters) {
			continue
		}
		rows = append(rows, memRow{path: path, doc: doc})
	}
	sort.Slice(rows, func(i, j int) bool { return rowLess(rows[i], rows[j], q.Orders) })

	if q.StartAfter != "" {
		cursor, ok := s.docs[q.StartAfter]
		if !ok {
			return nil, fmt.Errorf("start after %s: %w", q.StartAfter, ErrNotFound)
		}
		at := memRow{path: q.StartAfter, doc: cursor}
		rows = rows[sort.Search(len(rows), func(i int) bool { return rowLess(at, rows[i], q.Orders) }):]
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	// Committed documents are never mutated in place, so decoding after the
	// lock is released is safe.
	snaps := make([]Snapshot, 0, len(rows))
	for _, r := range rows {
		doc := r.doc
		snaps = append(snaps, Snapshot{
			Path:   r.path,
			ID:     lastSegment(r.path),
			decode: func(dst any) error { return decodeInto(doc, dst) },
		})
	}
	return snaps, nil
}

// memoryTx stages writes for commit. Reads see committed state and, as in
// Firestore, are not allowed once a write has been staged.
type memoryTx struct {
	store  *MemoryStore
	writes []memWrite
}

var errReadAfterWrite = errors.New("memory store: transaction reads must precede writes")

func (t *memoryTx) Get(path string, dst any) (bool, error) {
	if len(t.writes) > 0 {
		return false, errReadAfterWrite
	}
	if err := checkDocPath(path); err != nil {
		return false, err
	}
	return t.store.getLocked(path, dst)
}

func (t *memoryTx) Query(q Query) ([]Snapshot, error) {
	if len(t.writes) > 0 {
		return nil, errReadAfterWrite
	}
	return t.store.queryLocked(q)
}

func (t *memoryTx) Create(path string, data any) error {
	return t.add(memWrite{op: "create", path: path, data: data})
}

func (t *memoryTx) Set(path string, data any) error {
	return t.add(memWrite{op: "set", path: path, data: data})
}

func (t *memoryTx) Update(path string, updates []Update) error {
	return t.add(memWrite{op: "update", path: path, updates: updates})
}

func (t *memoryTx) Delete(path string) error {
	return t.add(memWrite{op: "delete", path: path})
}

func (t *memoryTx) add(w memWrite) error {
	staged, err := stage(w)
	if err != nil {
		return err
	}
	t.writes = append(t.writes, staged)
	return nil
}

func checkDocPath(path string) error {
	segs := strings.Split(path, "/")
	if len(segs) < 2 || len(segs)%2 != 0 {
		return models.NewValidationError("path", fmt.Sprintf("%q is not a document path", path))
	}
	for _, seg := range segs {
		if seg == "" {
			return models.NewValidationError("path", fmt.Sprintf("%q has an empty segment", path))
		}
	}
	return nil
}

func inCollection(path string, q Query) bool {
	if q.Group {
		segs := strings.Split(path, "/")
		return len(segs) >= 2 && segs[len(segs)-2] == q.Collection
	}
	prefix := q.Collection + "/"
	return strings.HasPrefix(path, prefix) && !strings.Contains(path[len(prefix):], "/")
}
