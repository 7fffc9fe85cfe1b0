package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/handlers/dto"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/cache"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/i18n/locales"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/logging"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/metrics"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/ratelimit"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/realtime"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/security"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/storage"
	"github.com/rafabene/gearshare-backend/internal/services"
)

const testPassword = "Secret123"

// testServer monta o router completo sobre SQLite em memória e imagens em disco temporário
type testServer struct {
	t         *testing.T
	router    *gin.Engine
	users     *postgres.UserRepository
	listings  *postgres.ListingRepository
	tokens    *security.JWTManager
	hasher    *security.BcryptHasher
	hub       *realtime.Hub
	imagesDir string
}

type serverOption func(*RouterConfig)

func withAuthLimit(limit int) serverOption {
	return func(cfg *RouterConfig) {
		cfg.AuthLimiter = ratelimit.NewMemoryLimiter(ratelimit.Config{Limit: limit, Window: time.Minute})
	}
}

func withTrustedProxies(proxies ...string) serverOption {
	return func(cfg *RouterConfig) {
		cfg.TrustedProxies = proxies
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), postgres.NewGormConfig("error"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))

	logger := logging.Discard()

	translations, err := i18n.NewService(locales.FS, "he")
	require.NoError(t, err)

	imagesDir := t.TempDir()
	images, err := storage.NewLocalImageStore(imagesDir, "/images/uploaded")
	require.NoError(t, err)

	tokens, err := security.NewJWTManager("handler-test-secret-with-entropy", time.Hour)
	require.NoError(t, err)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	revocations := cache.NewMemoryRevocations()
	appMetrics := metrics.NewMetrics()

	hub := realtime.NewHub(logger, func(entry *entities.AuditLogEntry) any {
		return dto.ToAuditEntryResponse(entry)
	}, nil)
	t.Cleanup(hub.Close)

	users := postgres.NewUserRepository(db)
	listings := postgres.NewListingRepository(db)
	audit := services.NewAuditTrail(postgres.NewAuditRepository(db), hub, logger)

	sessions := services.NewSessionService(tokens, revocations, users, logger)
	authService := services.NewAuthService(users, hasher, tokens, revocations, appMetrics, logger)
	listingService := services.NewListingService(listings, images, 1024, logger)
	adminService := services.NewAdminService(users, listings, audit, images, postgres.NewUnitOfWork(db), appMetrics, "admin", logger)

	cfg := RouterConfig{
		Env:            "test",
		BaseURL:        "https://api.example.com",
		AllowedOrigins: "*",
		I18n:           translations,
		Sessions:       sessions,
		Logger:         logger,
		Auth:           NewAuthHandler(authService, logger),
		Listings:       NewListingHandler(listingService, logger),
		Admin:          NewAdminHandler(adminService, hub, logger),
		Health:         NewHealthHandler("test", sqlDB),
		Metrics:        appMetrics,
		ImagesDir:      imagesDir,
		ImagesPath:     "/images/uploaded",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)

	return &testServer{
		t:         t,
		router:    router,
		users:     users,
		listings:  listings,
		tokens:    tokens,
		hasher:    hasher,
		hub:       hub,
		imagesDir: imagesDir,
	}
}

func (s *testServer) seedUser(username string, role entities.Role) *entities.User {
	s.t.Helper()

	hash, err := s.hasher.Hash(testPassword)
	require.NoError(s.t, err)

	user := &entities.User{
		Username:             username,
		Email:                username + "@example.com",
		PasswordHash:         hash,
		FullName:             "User " + username,
		Phone:                "0501234567",
		Merhav:               entities.MerhavDan,
		Role:                 role,
		VolunteerDeclaration: role == entities.RolePendingVolunteer,
	}
	require.NoError(s.t, s.users.Create(context.Background(), user))
	return user
}

func (s *testServer) seedListing(ownerID, title string, volunteerOnly bool) *entities.Listing {
	s.t.Helper()

	listing := &entities.Listing{
		OwnerID:         ownerID,
		Title:           title,
		Category:        entities.CategoryCoats,
		TransactionType: entities.TransactionLend,
		Merhav:          entities.MerhavDan,
		VolunteerOnly:   volunteerOnly,
		IsAvailable:     true,
	}
	require.NoError(s.t, s.listings.Create(context.Background(), listing))
	return listing
}

func (s *testServer) token(user *entities.User) string {
	s.t.Helper()

	token, _, err := s.tokens.Issue(user)
	require.NoError(s.t, err)
	return token
}

// request executa a requisição com Accept-Language: en
func (s *testServer) request(method, target string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Accept-Language", "en")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) sendJSON(method, target string, payload any, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(data)
	}
	return s.request(method, target, body, "application/json", token)
}

type formFile struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func (s *testServer) multipart(method, target string, fields map[string]string, files []formFile, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(s.t, writer.WriteField(key, value))
	}
	for _, file := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(s.t, err)
		_, err = part.Write(file.content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, writer.Close())

	return s.request(method, target, &buf, writer.FormDataContentType(), token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// problem é o envelope de erro como visto pelo cliente
type problem struct {
	Error    string           `json:"error"`
	Message  string           `json:"message"`
	Type     string           `json:"type"`
	Title    string           `json:"title"`
	Status   int              `json:"status"`
	Detail   string           `json:"detail"`
	Instance string           `json:"instance"`
	Details  []dto.FieldError `json:"details"`
}

func requireProblem(t *testing.T, w *httptest.ResponseRecorder, status int, message string) problem {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	p := decode[problem](t, w)
	require.Equal(t, status, p.Status)
	if message != "" {
		require.Equal(t, message, p.Message)
	}
	return p
}
