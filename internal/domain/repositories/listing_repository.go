package repositories

import (
	"context"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

// ListingRepository define a interface para persistência de anúncios
type ListingRepository interface {
	Create(ctx context.Context, listing *entities.Listing) error
	FindByID(ctx context.Context, id string) (*entities.Listing, error)
	List(ctx context.Context, filters ListingFilters) ([]*entities.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Listing, error)
	Update(ctx context.Context, listing *entities.Listing) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	IncrementViews(ctx context.Context, id string) error
	CountAvailable(ctx context.Context) (int64, error)
}

// ListingFilters são predicados combinados com AND na enumeração de anúncios
type ListingFilters struct {
	OnlyAvailable        bool
	ExcludeVolunteerOnly bool
	Category             *entities.Category
	Merhav               *entities.Merhav
	TransactionType      *entities.TransactionType
	Search               string
}
