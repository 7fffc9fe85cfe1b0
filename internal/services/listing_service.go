package services

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
)

// DefaultMaxImageBytes é o tamanho máximo de cada imagem enviada
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

var (
	allowedImageExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}
	allowedImageTypes      = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true}
)

// ImageUpload é um arquivo de imagem recebido do cliente
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ListingService aplica visibilidade e permissões sobre anúncios
type ListingService struct {
	listingRepo   repositories.ListingRepository
	images        ports.ImageStore
	logger        ports.Logger
	maxImageBytes int64
	now           func() time.Time
}

// NewListingService cria um novo ListingService
func NewListingService(
	listingRepo repositories.ListingRepository,
	images ports.ImageStore,
	maxImageBytes int64,
	logger ports.Logger,
) *ListingService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &ListingService{
		listingRepo:   listingRepo,
		images:        images,
		logger:        logger,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

// ListingQuery são os filtros opcionais da listagem pública
type ListingQuery struct {
	Category        *entities.Category
	Merhav          *entities.Merhav
	TransactionType *entities.TransactionType
	Search          string
}

// ListingInput representa os dados para criar um anúncio
type ListingInput struct {
	Title           string
	Description     string
	Category        entities.Category
	TransactionType entities.TransactionType
	Size            string
	Merhav          entities.Merhav
	VolunteerOnly   bool
	Image1          *ImageUpload
	Image2          *ImageUpload
}

// ListingChanges representa uma edição parcial; campos nil ficam como estão.
// Uma nova imagem no mesmo slot prevalece sobre a remoção.
type ListingChanges struct {
	Title           *string
	Description     *string
	Category        *entities.Category
	TransactionType *entities.TransactionType
	Size            *string
	Merhav          *entities.Merhav
	VolunteerOnly   *bool
	IsAvailable     *bool
	RemoveImage1    bool
	RemoveImage2    bool
	Image1          *ImageUpload
	Image2          *ImageUpload
}

// List enumera anúncios disponíveis visíveis para a identidade (nil = anônimo)
func (s *ListingService) List(ctx context.Context, identity *entities.User, query ListingQuery) ([]*entities.Listing, error) {
	return s.listingRepo.List(ctx, repositories.ListingFilters{
		OnlyAvailable:        true,
		ExcludeVolunteerOnly: !policy.CanViewVolunteerOnly(identity),
		Category:             query.Category,
		Merhav:               query.Merhav,
		TransactionType:      query.TransactionType,
		Search:               query.Search,
	})
}

// Get busca um anúncio; restritos a voluntários retornam ErrVolunteerOnly, não NotFound
func (s *ListingService) Get(ctx context.Context, identity *entities.User, id string) (*entities.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.VolunteerOnly && !policy.CanViewVolunteerOnly(identity) {
		return nil, domainerrors.ErrVolunteerOnly
	}
	return listing, nil
}

// ListMine lista todos os anúncios do usuário, inclusive indisponíveis
func (s *ListingService) ListMine(ctx context.Context, identity *entities.User) ([]*entities.Listing, error) {
	if identity == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	return s.listingRepo.ListByOwner(ctx, identity.ID)
}

// Create publica um anúncio (apenas voluntários verificados e admins)
func (s *ListingService) Create(ctx context.Context, identity *entities.User, input ListingInput) (*entities.Listing, error) {
	if err := policy.RequireVerifiedVolunteer(identity); err != nil {
		return nil, err
	}

	listing := &entities.Listing{
		OwnerID:         identity.ID,
		Title:           strings.TrimSpace(input.Title),
		Description:     optional(input.Description),
		Category:        input.Category,
		TransactionType: input.TransactionType,
		Size:            optional(input.Size),
		Merhav:          input.Merhav,
		VolunteerOnly:   input.VolunteerOnly,
		IsAvailable:     true,
	}

	if err := listing.Validate(); err != nil {
		return nil, domainerrors.NewValidationError(err.Error(), domainerrors.ErrValidation)
	}
	if err := s.checkImages(input.Image1, input.Image2); err != nil {
		return nil, err
	}

	saved, err := s.saveImages(ctx, input.Image1, input.Image2)
	if err != nil {
		return nil, err
	}
	listing.Image1, listing.Image2 = saved[0], saved[1]

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		s.discardImages(ctx, saved[0], saved[1])
		return nil, err
	}

	s.logger.Info("listing created", "listing_id", listing.ID, "owner_id", identity.ID)

	return s.find(ctx, listing.ID)
}

// Update aplica uma edição parcial (dono ou admin)
func (s *ListingService) Update(ctx context.Context, identity *entities.User, id string, changes ListingChanges) (*entities.Listing, error) {
	if identity == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireOwnershipOrAdmin(identity, listing); err != nil {
		return nil, err
	}

	applyChanges(listing, changes)

	if err := listing.Validate(); err != nil {
		return nil, domainerrors.NewValidationError(err.Error(), domainerrors.ErrValidation)
	}
	if err := s.checkImages(changes.Image1, changes.Image2); err != nil {
		return nil, err
	}

	previous := [2]*string{listing.Image1, listing.Image2}
	if changes.RemoveImage1 {
		listing.Image1 = nil
	}
	if changes.RemoveImage2 {
		listing.Image2 = nil
	}

	saved, err := s.saveImages(ctx, changes.Image1, changes.Image2)
	if err != nil {
		return nil, err
	}
	if saved[0] != nil {
		listing.Image1 = saved[0]
	}
	if saved[1] != nil {
		listing.Image2 = saved[1]
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		s.discardImages(ctx, saved[0], saved[1])
		return nil, err
	}

	// imagens substituídas ou removidas deixam de ser referenciadas
	if previous[0] != nil && listing.Image1 != previous[0] {
		s.discardImages(ctx, previous[0])
	}
	if previous[1] != nil && listing.Image2 != previous[1] {
		s.discardImages(ctx, previous[1])
	}

	s.logger.Info("listing updated", "listing_id", listing.ID, "actor_id", identity.ID)

	return s.find(ctx, listing.ID)
}

// Delete remove o anúncio (dono ou admin) e suas imagens
func (s *ListingService) Delete(ctx context.Context, identity *entities.User, id string) error {
	if identity == nil {
		return domainerrors.ErrUnauthorized
	}

	listing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.RequireOwnershipOrAdmin(identity, listing); err != nil {
		return err
	}

	if err := s.listingRepo.Delete(ctx, listing.ID); err != nil {
		return err
	}

	s.discardImages(ctx, listing.Image1, listing.Image2)
	s.logger.Info("listing deleted", "listing_id", listing.ID, "actor_id", identity.ID)
	return nil
}

// IncrementViews é best effort: falhas são logadas e reportadas como false
func (s *ListingService) IncrementViews(ctx context.Context, id string) bool {
	if err := s.listingRepo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("failed to increment listing views", "listing_id", id, "error", err)
		return false
	}
	return true
}

func (s *ListingService) find(ctx context.Context, id string) (*entities.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *ListingService) checkImages(uploads ...*ImageUpload) error {
	for _, upload := range uploads {
		if upload == nil {
			continue
		}
		if upload.Size > s.maxImageBytes {
			return domainerrors.ErrImageTooLarge
		}
		ext := strings.ToLower(filepath.Ext(upload.Filename))
		contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
		if !allowedImageExtensions[ext] || !allowedImageTypes[contentType] {
			return domainerrors.ErrInvalidImage
		}
	}
	return nil
}

// saveImages grava os uploads na ordem dos slots; em falha desfaz o que já foi gravado
func (s *ListingService) saveImages(ctx context.Context, uploads ...*ImageUpload) ([entities.MaxListingImages]*string, error) {
	var refs [entities.MaxListingImages]*string

	for i, upload := range uploads {
		if upload == nil || i >= entities.MaxListingImages {
			continue
		}

		ref, err := s.images.Save(ctx, s.imageName(upload.Filename), upload.ContentType, upload.Content)
		if err != nil {
			s.discardImages(ctx, refs[:]...)
			return refs, fmt.Errorf("failed to store image: %w", err)
		}
		refs[i] = &ref
	}
	return refs, nil
}

func (s *ListingService) discardImages(ctx context.Context, refs ...*string) {
	for _, ref := range refs {
		if ref == nil || *ref == "" {
			continue
		}
		if err := s.images.Delete(ctx, *ref); err != nil {
			s.logger.Warn("failed to delete image", "ref", *ref, "error", err)
		}
	}
}

// imageName gera listing-<unix ms>-<aleatório>.<ext>
func (s *ListingService) imageName(original string) string {
	return fmt.Sprintf("listing-%d-%d%s",
		s.now().UnixMilli(),
		rand.IntN(1_000_000_000),
		strings.ToLower(filepath.Ext(original)),
	)
}

func applyChanges(listing *entities.Listing, changes ListingChanges) {
	if changes.Title != nil {
		listing.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		listing.Description = optional(*changes.Description)
	}
	if changes.Category != nil {
		listing.Category = *changes.Category
	}
	if changes.TransactionType != nil {
		listing.TransactionType = *changes.TransactionType
	}
	if changes.Size != nil {
		listing.Size = optional(*changes.Size)
	}
	if changes.Merhav != nil {
		listing.Merhav = *changes.Merhav
	}
	if changes.VolunteerOnly != nil {
		listing.VolunteerOnly = *changes.VolunteerOnly
	}
	if changes.IsAvailable != nil {
		listing.IsAvailable = *changes.IsAvailable
	}
}

// optional converte string vazia em nil
func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
