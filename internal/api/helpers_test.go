package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clubhub-backend-go/internal/auth"
	"clubhub-backend-go/internal/config"
	"clubhub-backend-go/internal/core"
	"clubhub-backend-go/internal/crypto"
	"clubhub-backend-go/internal/db"
	"clubhub-backend-go/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *db.MemoryStore
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{StoreDriver: config.StoreMemory}
	}
	logger := zap.NewNop()
	store := db.NewMemoryStore()
	index := db.NewUserClubIndex(store)
	clubRepo := db.NewClubRepository(store, index)
	memberRepo := db.NewMemberRepository(store)
	userRepo := db.NewUserRepository(store)
	cipher, err := crypto.NewFieldCipher(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	audit := core.NewAuditService(db.NewAuditRepository(store), clubRepo, memberRepo)
	svc := Services{
		Users:     core.NewUserService(userRepo, cipher, logger),
		Clubs:     core.NewClubService(clubRepo, memberRepo, userRepo, audit, core.ClubDefaults{Currency: "CLP", Timezone: "America/Santiago"}, logger),
		Members:   core.NewMemberService(clubRepo, memberRepo, cipher, audit, logger),
		Payments:  core.NewPaymentService(clubRepo, memberRepo, db.NewPaymentRepository(store), audit, logger),
		Invoices:  core.NewInvoiceService(clubRepo, memberRepo, db.NewInvoiceRepository(store), audit, logger),
		Events:    core.NewEventService(clubRepo, memberRepo, db.NewEventRepository(store), db.NewAttendanceRepository(store), audit, logger),
		Documents: core.NewDocumentService(clubRepo, memberRepo, db.NewDocumentRepository(store), audit, logger),
		Audit:     audit,
	}
	manager := auth.NewManager(auth.NewLocalIdentity(logger), userRepo, logger)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	SetupRoutes(router, cfg, logger, manager, svc)
	return &testServer{router: router, store: store}
}

// do sends a JSON request and returns the recorder. body may be a string of
// raw JSON or any value to marshal.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// signUp registers an account and returns its ID token and UID.
func (s *testServer) signUp(t *testing.T, email, name string) (token, uid string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": email, "password": "secret123", "displayName": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[SessionResponse](t, w)
	require.NotNil(t, resp.User)
	return resp.User.IDToken, resp.User.UID
}
