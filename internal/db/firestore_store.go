package db

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clubhub-backend-go/internal/models"
)

// FirestoreStore implements Store on a Cloud Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialised Firestore client.
func NewFirestoreStore(client *firestore.Client) (*FirestoreStore, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is not initialized")
	}
	return &FirestoreStore{client: client}, nil
}

// NewID returns a Firestore auto-ID.
func (s *FirestoreStore) NewID() string {
	return s.client.Collection(clubsCollection).NewDoc().ID
}

func (s *FirestoreStore) doc(path string) (*firestore.DocumentRef, error) {
	ref := s.client.Doc(path)
	if ref == nil {
		return nil, models.NewValidationError("path", fmt.Sprintf("%q is not a document path", path))
	}
	return ref, nil
}

func (s *FirestoreStore) Get(ctx context.Context, path string, dst any) (bool, error) {
	ref, err := s.doc(path)
	if err != nil {
		return false, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, mapError("get", path, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

func (s *FirestoreStore) Create(ctx context.Context, path string, data any) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Create(ctx, data)
	return mapError("create", path, err)
}

func (s *FirestoreStore) Set(ctx context.Context, path string, data any) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, data)
	return mapError("set", path, err)
}

func (s *FirestoreStore) Update(ctx context.Context, path string, updates []Update) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Update(ctx, firestoreUpdates(updates))
	return mapError("update", path, err)
}

func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	ref, err := s.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Delete(ctx)
	return mapError("delete", path, err)
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	fq, err := s.buildQuery(q, func(ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
		return ref.Get(ctx)
	})
	if err != nil {
		return nil, err
	}
	return collect(fq.Documents(ctx), q.Collection)
}

func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{store: s, tx: tx})
	})
	return mapError("transaction", "", err)
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// buildQuery translates q. The cursor document is fetched through getSnap so
// transactional queries read it inside the transaction.
func (s *FirestoreStore) buildQuery(q Query, getSnap func(*firestore.DocumentRef) (*firestore.DocumentSnapshot, error)) (firestore.Query, error) {
	var fq firestore.Query
	if q.Group {
		fq = s.client.CollectionGroup(q.Collection).Query
	} else {
		col := s.client.Collection(q.Collection)
		if col == nil {
			return fq, models.NewValidationError("collection", fmt.Sprintf("%q is not a collection path", q.Collection))
		}
		fq = col.Query
	}
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	if q.StartAfter != "" {
		ref, err := s.doc(q.StartAfter)
		if err != nil {
			return fq, err
		}
		snap, err := getSnap(ref)
		if err != nil {
			return fq, mapError("get", q.StartAfter, err)
		}
		fq = fq.StartAfter(snap)
	}
	return fq, nil
}

func collect(iter *firestore.DocumentIterator, collection string) ([]Snapshot, error) {
	defer iter.Stop()

	var snaps []Snapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapError("query", collection, err)
		}
		snaps = append(snaps, Snapshot{Path: relativePath(doc.Ref.Path), ID: doc.Ref.ID, decode: doc.DataTo})
	}
	return snaps, nil
}

// relativePath strips the "projects/.../documents/" prefix from a full
// resource name.
func relativePath(name string) string {
	const marker = "/documents/"
	if i := strings.Index(name, marker); i >= 0 {
		return name[i+len(marker):]
	}
	return name
}

// firestoreUpdates converts store updates and their transforms to the
// Firestore client's sentinels.
func firestoreUpdates(updates []Update) []firestore.Update {
	out := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		out = append(out, firestore.Update{Path: u.Path, Value: firestoreValue(u.Value)})
	}
	return out
}

func firestoreValue(v any) any {
	switch t := v.(type) {
	case incrementTransform:
		return firestore.Increment(t.n)
	case serverTimestampTransform:
		return firestore.ServerTimestamp
	case deleteFieldTransform:
		return firestore.Delete
	case arrayUnionTransform:
		return firestore.ArrayUnion(t.elems...)
	case arrayRemoveTransform:
		return firestore.ArrayRemove(t.elems...)
	}
	return v
}

// firestoreTx adapts *firestore.Transaction to Tx.
type firestoreTx struct {
	store *FirestoreStore
	tx    *firestore.Transaction
}

func (t *firestoreTx) Get(path string, dst any) (bool, error) {
	ref, err := t.store.doc(path)
	if err != nil {
		return false, err
	}
	snap, err := t.tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, mapError("get", path, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

func (t *firestoreTx) Query(q Query) ([]Snapshot, error) {
	fq, err := t.store.buildQuery(q, t.tx.Get)
	if err != nil {
		return nil, err
	}
	return collect(t.tx.Documents(fq), q.Collection)
}

func (t *firestoreTx) Create(path string, data any) error {
	ref, err := t.store.doc(path)
	if err != nil {
		return err
	}
	return mapError("create", path, t.tx.Create(ref, data))
}

func (t *firestoreTx) Set(path string, data any) error {
	ref, err := t.store.doc(path)
	if err != nil {
		return err
	}
	return mapError("set", path, t.tx.Set(ref, data))
}

func (t *firestoreTx) Update(path string, updates []Update) error {
	ref, err := t.store.doc(path)
	if err != nil {
		return err
	}
	return mapError("update", path, t.tx.Update(ref, firestoreUpdates(updates)))
}

func (t *firestoreTx) Delete(path string) error {
	ref, err := t.store.doc(path)
	if err != nil {
		return err
	}
	return mapError("delete", path, t.tx.Delete(ref))
}
