package db

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend-go/internal/models"
)

type documentRepository struct {
	store Store
}

// NewDocumentRepository creates a DocumentRepository.
func NewDocumentRepository(store Store) DocumentRepository {
	return &documentRepository{store: store}
}

// Add stores the document metadata; createdAt is stamped by the store.
func (r *documentRepository) Add(ctx context.Context, clubID string, doc *models.ClubDocument) (string, error) {
	if err := checkID("clubId", clubID); err != nil {
		return "", err
	}
	if doc == nil {
		return "", models.NewValidationError("document", "is required")
	}
	doc.ID = r.store.NewID()
	doc.ClubID = clubID
	doc.CreatedAt = time.Time{}
	if err := models.Validate(doc); err != nil {
		return "", err
	}
	if err := r.store.Create(ctx, clubDoc(clubID, documentsCollection, doc.ID), doc); err != nil {
		return "", fmt.Errorf("failed to add document to club '%s': %w", clubID, err)
	}
	return doc.ID, nil
}

func (r *documentRepository) List(ctx context.Context, clubID string, opts ListOptions) ([]*models.ClubDocument, error) {
	return listInto[models.ClubDocument](ctx, r.store, clubID, documentsCollection, opts)
}
