package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rafabene/gearshare-backend/internal/domain/ports"
)

// DefaultBcryptCost é o custo usado nos hashes de senha
const DefaultBcryptCost = 10

// BcryptHasher implementa ports.PasswordHasher
type BcryptHasher struct {
	cost int
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher cria um hasher; custo fora da faixa do bcrypt usa o padrão
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
