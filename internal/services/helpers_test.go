package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/persistence/postgres"
)

// store agrupa os repositórios reais sobre um SQLite em memória
type store struct {
	db       *gorm.DB
	users    *postgres.UserRepository
	listings *postgres.ListingRepository
	audit    *postgres.AuditRepository
	uow      ports.UnitOfWork
	close    func()
}

func openStore() (*store, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), postgres.NewGormConfig("error"))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := postgres.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &store{
		db:       db,
		users:    postgres.NewUserRepository(db),
		listings: postgres.NewListingRepository(db),
		audit:    postgres.NewAuditRepository(db),
		uow:      postgres.NewUnitOfWork(db),
		close:    func() { _ = sqlDB.Close() },
	}, nil
}

func (s *store) seedUser(username string, role entities.Role) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FullName:     "User " + username,
		Phone:        "0501234567",
		Merhav:       entities.MerhavDan,
		Role:         role,
	}
	if role == entities.RolePendingVolunteer {
		user.VolunteerDeclaration = true
	}
	if err := s.users.Create(context.Background(), user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *store) seedListing(ownerID, title string, images ...string) (*entities.Listing, error) {
	listing := &entities.Listing{
		OwnerID:         ownerID,
		Title:           title,
		Category:        entities.CategoryCoats,
		TransactionType: entities.TransactionLend,
		Merhav:          entities.MerhavDan,
		IsAvailable:     true,
	}
	if len(images) > 0 {
		listing.Image1 = &images[0]
	}
	if len(images) > 1 {
		listing.Image2 = &images[1]
	}
	if err := s.listings.Create(context.Background(), listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// memImages é um ImageStore em memória
type memImages struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemImages() *memImages {
	return &memImages{files: map[string][]byte{}}
}

func (m *memImages) Save(_ context.Context, name, _ string, content io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	ref := "/images/uploaded/" + name
	m.files[ref] = data
	return ref, nil
}

func (m *memImages) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *memImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func (m *memImages) wasDeleted(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.deleted {
		if d == ref {
			return true
		}
	}
	return false
}

// recorder conta eventos de domínio
type recorder struct {
	mu     sync.Mutex
	admin  map[entities.AuditAction]int
	logins map[string]int
}

func newRecorder() *recorder {
	return &recorder{admin: map[entities.AuditAction]int{}, logins: map[string]int{}}
}

func (r *recorder) AdminAction(action entities.AuditAction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admin[action]++
}

func (r *recorder) LoginAttempt(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[outcome]++
}

func (r *recorder) adminCount(action entities.AuditAction) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admin[action]
}

func (r *recorder) loginCount(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logins[outcome]
}

// publisher guarda as entradas publicadas
type publisher struct {
	mu      sync.Mutex
	entries []*entities.AuditLogEntry
}

func (p *publisher) Publish(entry *entities.AuditLogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *publisher) published() []*entities.AuditLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*entities.AuditLogEntry(nil), p.entries...)
}

// failingAudit simula um repositório de auditoria indisponível
type failingAudit struct{}

var errAuditDown = errors.New("audit store down")

func (failingAudit) Append(context.Context, *entities.AuditLogEntry) error { return errAuditDown }
func (failingAudit) Recent(context.Context, int) ([]*entities.AuditLogEntry, error) {
	return nil, errAuditDown
}
func (failingAudit) DetachUser(context.Context, string) error { return errAuditDown }

func upload(name, contentType string, size int) *ImageUpload {
	return &ImageUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(size),
		Content:     bytes.NewReader([]byte(strings.Repeat("x", size))),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func mustSeed[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("seed: %v", err))
	}
	return v
}

func roleChange(from, to entities.Role) repositories.RoleTransition {
	return repositories.RoleTransition{From: []entities.Role{from}, To: to}
}
