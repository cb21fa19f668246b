package core

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clubhub-backend-go/internal/crypto"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/models"
)

type services struct {
	store     *db.MemoryStore
	users     db.UserRepository
	members   db.MemberRepository
	audit     AuditService
	clubs     ClubService
	memberSvc MemberService
	payments  PaymentService
	invoices  InvoiceService
	events    EventService
	documents DocumentService
	profiles  UserService
}

func newServices(t *testing.T) *services {
	t.Helper()
	return newServicesWithAudit(t, nil)
}

// newServicesWithAudit wires every service on one MemoryStore. A nil audit
// uses the real audit service.
func newServicesWithAudit(t *testing.T, audit AuditService) *services {
	t.Helper()
	store := db.NewMemoryStore()
	index := db.NewUserClubIndex(store)
	clubRepo := db.NewClubRepository(store, index)
	memberRepo := db.NewMemberRepository(store)
	userRepo := db.NewUserRepository(store)
	if audit == nil {
		audit = NewAuditService(db.NewAuditRepository(store), clubRepo, memberRepo)
	}
	cipher, err := crypto.NewFieldCipher(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	logger := zap.NewNop()

	return &services{
		store:     store,
		users:     userRepo,
		members:   memberRepo,
		audit:     audit,
		clubs:     NewClubService(clubRepo, memberRepo, userRepo, audit, ClubDefaults{Currency: "CLP", Timezone: "America/Santiago"}, logger),
		memberSvc: NewMemberService(clubRepo, memberRepo, cipher, audit, logger),
		payments:  NewPaymentService(clubRepo, memberRepo, db.NewPaymentRepository(store), audit, logger),
		invoices:  NewInvoiceService(clubRepo, memberRepo, db.NewInvoiceRepository(store), audit, logger),
		events:    NewEventService(clubRepo, memberRepo, db.NewEventRepository(store), db.NewAttendanceRepository(store), audit, logger),
		documents: NewDocumentService(clubRepo, memberRepo, db.NewDocumentRepository(store), audit, logger),
		profiles:  NewUserService(userRepo, cipher, logger),
	}
}

const ownerID = "owner-1"

func (s *services) createClub(t *testing.T, name string) *models.Club {
	t.Helper()
	club, err := s.clubs.CreateClub(context.Background(), ownerID, models.CreateClubRequest{
		Name: name,
		Type: models.ClubTypeSports,
	})
	require.NoError(t, err)
	return club
}

func (s *services) addMember(t *testing.T, clubID, first, last string, role models.UserRole, userID *string) *models.Member {
	t.Helper()
	m, err := s.memberSvc.AddMember(context.Background(), ownerID, clubID, models.Member{
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
		UserID:    userID,
	})
	require.NoError(t, err)
	return m
}

func strPtr(s string) *string { return &s }

func dueDate() time.Time { return time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC) }
