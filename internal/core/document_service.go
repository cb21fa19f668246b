package core

import (
	"context"

	"go.uber.org/zap"

	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

type documentService struct {
	documentRepo db.DocumentRepository
	guard        clubGuard
	auditor      auditor
}

// NewDocumentService creates a new DocumentService instance.
func NewDocumentService(
	cr db.ClubRepository,
	mr db.MemberRepository,
	dr db.DocumentRepository,
	as AuditService,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		documentRepo: dr,
		guard:        clubGuard{clubs: cr, members: mr},
		auditor:      auditor{audit: as, logger: logger},
	}
}

// AddDocument records the metadata of an already uploaded file.
func (s *documentService) AddDocument(ctx context.Context, userID, clubID string, doc models.ClubDocument) (*models.ClubDocument, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessWrite); err != nil {
		return nil, err
	}
	doc.UploadedBy = userID
	docID, err := s.documentRepo.Add(ctx, clubID, &doc)
	if err != nil {
		return nil, err
	}
	s.auditor.record(ctx, userID, clubID, models.AuditDocumentAdd, "DOCUMENT", docID, map[string]string{
		"name": doc.Name,
	})
	return &doc, nil
}

func (s *documentService) ListDocuments(ctx context.Context, userID, clubID string, opts db.ListOptions) ([]*models.ClubDocument, error) {
	if _, err := s.guard.authorize(ctx, userID, clubID, accessRead); err != nil {
		return nil, err
	}
	return s.documentRepo.List(ctx, clubID, opts)
}
