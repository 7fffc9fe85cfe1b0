package dto

import (
	"time"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	"github.com/rafabene/gearshare-backend/internal/services"
)

// ListingQuery são os filtros da listagem pública
type ListingQuery struct {
	Category        string `form:"category" binding:"omitempty,category"`
	Merhav          string `form:"merhav" binding:"omitempty,merhav"`
	TransactionType string `form:"transaction_type" binding:"omitempty,transaction_type"`
	Search          string `form:"search" binding:"omitempty,max=100"`
}

// ToQuery converte os filtros na consulta do ListingService
func (q ListingQuery) ToQuery() services.ListingQuery {
	query := services.ListingQuery{Search: q.Search}
	if q.Category != "" {
		category := entities.Category(q.Category)
		query.Category = &category
	}
	if q.Merhav != "" {
		merhav := entities.Merhav(q.Merhav)
		query.Merhav = &merhav
	}
	if q.TransactionType != "" {
		transactionType := entities.TransactionType(q.TransactionType)
		query.TransactionType = &transactionType
	}
	return query
}

// CreateListingRequest é o formulário multipart de criação; imagens vêm em image1/image2
type CreateListingRequest struct {
	Title           string `form:"title" json:"title" binding:"required,min=3,max=100"`
	Description     string `form:"description" json:"description" binding:"omitempty,max=1000"`
	Category        string `form:"category" json:"category" binding:"required,category"`
	TransactionType string `form:"transaction_type" json:"transaction_type" binding:"required,transaction_type"`
	Size            string `form:"size" json:"size" binding:"omitempty,max=50"`
	Merhav          string `form:"merhav" json:"merhav" binding:"required,merhav"`
	VolunteerOnly   bool   `form:"volunteer_only" json:"volunteer_only"`
}

// ToInput converte o formulário na entrada do ListingService
func (r CreateListingRequest) ToInput(image1, image2 *services.ImageUpload) services.ListingInput {
	return services.ListingInput{
		Title:           r.Title,
		Description:     r.Description,
		Category:        entities.Category(r.Category),
		TransactionType: entities.TransactionType(r.TransactionType),
		Size:            r.Size,
		Merhav:          entities.Merhav(r.Merhav),
		VolunteerOnly:   r.VolunteerOnly,
		Image1:          image1,
		Image2:          image2,
	}
}

// UpdateListingRequest é a edição parcial; campos ausentes ficam como estão
type UpdateListingRequest struct {
	Title           *string `form:"title" json:"title" binding:"omitempty,min=3,max=100"`
	Description     *string `form:"description" json:"description" binding:"omitempty,max=1000"`
	Category        *string `form:"category" json:"category" binding:"omitempty,category"`
	TransactionType *string `form:"transaction_type" json:"transaction_type" binding:"omitempty,transaction_type"`
	Size            *string `form:"size" json:"size" binding:"omitempty,max=50"`
	Merhav          *string `form:"merhav" json:"merhav" binding:"omitempty,merhav"`
	VolunteerOnly   *bool   `form:"volunteer_only" json:"volunteer_only"`
	IsAvailable     *bool   `form:"is_available" json:"is_available"`
	RemoveImage1    bool    `form:"removeImage1" json:"removeImage1"`
	RemoveImage2    bool    `form:"removeImage2" json:"removeImage2"`
}

// ToChanges converte o formulário nas alterações do ListingService
func (r UpdateListingRequest) ToChanges(image1, image2 *services.ImageUpload) services.ListingChanges {
	changes := services.ListingChanges{
		Title:         r.Title,
		Description:   r.Description,
		Size:          r.Size,
		VolunteerOnly: r.VolunteerOnly,
		IsAvailable:   r.IsAvailable,
		RemoveImage1:  r.RemoveImage1,
		RemoveImage2:  r.RemoveImage2,
		Image1:        image1,
		Image2:        image2,
	}
	if r.Category != nil {
		category := entities.Category(*r.Category)
		changes.Category = &category
	}
	if r.TransactionType != nil {
		transactionType := entities.TransactionType(*r.TransactionType)
		changes.TransactionType = &transactionType
	}
	if r.Merhav != nil {
		merhav := entities.Merhav(*r.Merhav)
		changes.Merhav = &merhav
	}
	return changes
}

// OwnerResponse são os dados públicos de contato do dono do anúncio
type OwnerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Merhav   string `json:"merhav,omitempty"`
}

// ListingResponse representa um anúncio
type ListingResponse struct {
	ID              string         `json:"id"`
	OwnerID         string         `json:"owner_id"`
	Title           string         `json:"title"`
	Description     *string        `json:"description"`
	Category        string         `json:"category"`
	TransactionType string         `json:"transaction_type"`
	Size            *string        `json:"size"`
	Merhav          string         `json:"merhav"`
	Image1          *string        `json:"image1"`
	Image2          *string        `json:"image2"`
	VolunteerOnly   bool           `json:"volunteer_only"`
	IsAvailable     bool           `json:"is_available"`
	Views           int64          `json:"views"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Owner           *OwnerResponse `json:"owner,omitempty"`
}

// ListingEnvelope é a resposta de um único anúncio
type ListingEnvelope struct {
	Message string          `json:"message,omitempty"`
	Listing ListingResponse `json:"listing"`
}

// ListingsResponse é a resposta das listagens
type ListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
}

// ViewResponse é a resposta best effort do contador de visualizações
type ViewResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ToListingResponse converte uma entidade Listing para ListingResponse
func ToListingResponse(listing *entities.Listing) ListingResponse {
	response := ListingResponse{
		ID:              listing.ID,
		OwnerID:         listing.OwnerID,
		Title:           listing.Title,
		Description:     listing.Description,
		Category:        string(listing.Category),
		TransactionType: string(listing.TransactionType),
		Size:            listing.Size,
		Merhav:          string(listing.Merhav),
		Image1:          listing.Image1,
		Image2:          listing.Image2,
		VolunteerOnly:   listing.VolunteerOnly,
		IsAvailable:     listing.IsAvailable,
		Views:           listing.Views,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
	}
	if listing.Owner != nil {
		response.Owner = &OwnerResponse{
			ID:       listing.Owner.ID,
			FullName: listing.Owner.FullName,
			Phone:    listing.Owner.Phone,
			Merhav:   string(listing.Owner.Merhav),
		}
	}
	return response
}

func ToListingResponses(listings []*entities.Listing) []ListingResponse {
	responses := make([]ListingResponse, len(listings))
	for i, listing := range listings {
		responses[i] = ToListingResponse(listing)
	}
	return responses
}
