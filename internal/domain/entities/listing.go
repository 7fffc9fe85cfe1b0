package entities

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxListingImages é o número máximo de imagens por anúncio
const MaxListingImages = 2

// Listing representa um anúncio de equipamento compartilhado
type Listing struct {
	ID              string
	OwnerID         string
	Title           string
	Description     *string
	Category        Category
	TransactionType TransactionType
	Size            *string
	Merhav          Merhav
	Image1          *string
	Image2          *string
	VolunteerOnly   bool
	IsAvailable     bool
	Views           int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Owner *UserSummary
}

// OwnedBy implementa policy.Owned
func (l *Listing) OwnedBy() string {
	return l.OwnerID
}

// Images retorna as referências de imagem preenchidas
func (l *Listing) Images() []string {
	images := make([]string, 0, MaxListingImages)
	for _, img := range []*string{l.Image1, l.Image2} {
		if img != nil && *img != "" {
			images = append(images, *img)
		}
	}
	return images
}

// Validate valida regras de negócio da entidade Listing
func (l *Listing) Validate() error {
	titleLen := utf8.RuneCountInString(strings.TrimSpace(l.Title))
	if titleLen < 3 || titleLen > 100 {
		return errors.New("title must be between 3 and 100 characters")
	}

	if l.Description != nil && utf8.RuneCountInString(*l.Description) > 1000 {
		return errors.New("description must be at most 1000 characters")
	}

	if !l.Category.IsValid() {
		return errors.New("invalid category")
	}

	if !l.TransactionType.IsValid() {
		return errors.New("invalid transaction type")
	}

	if !l.Merhav.IsValid() {
		return errors.New("invalid merhav")
	}

	return nil
}
