package errors

import "errors"

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrListingNotFound    = errors.New("error.listing_not_found")
	ErrUsernameTaken      = errors.New("error.username_taken")
	ErrEmailTaken         = errors.New("error.email_taken")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrInvalidToken       = errors.New("error.invalid_token")
	ErrProfileNotFound    = errors.New("error.profile_not_found")
	ErrForbidden          = errors.New("error.forbidden")
	ErrNotListingOwner    = errors.New("error.not_listing_owner")
	ErrVolunteerOnly      = errors.New("error.volunteer_only_listing")
	ErrRateLimited        = errors.New("error.rate_limited")
)

// Admin state machine errors
var (
	ErrNotPendingVolunteer = errors.New("error.not_pending_volunteer")
	ErrAlreadyAdmin        = errors.New("error.already_admin")
	ErrNotAdmin            = errors.New("error.not_admin")
	ErrSelfAction          = errors.New("error.self_action")
	ErrProtectedAccount    = errors.New("error.protected_account")
)

// Domain errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrValidation    = errors.New("error.validation")
	ErrPhoneRequired = errors.New("error.phone_required")
	ErrInvalidImage  = errors.New("error.invalid_image")
	ErrImageTooLarge = errors.New("error.image_too_large")
	ErrInvalidID     = errors.New("error.invalid_id")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeRateLimited  = "/problems/rate-limited"
	ProblemTypeInternal     = "/problems/internal-error"
)

// Kind classifica um erro na taxonomia exposta pela API
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

var kinds = map[error]Kind{
	ErrUserNotFound:        KindNotFound,
	ErrListingNotFound:     KindNotFound,
	ErrUsernameTaken:       KindConflict,
	ErrEmailTaken:          KindConflict,
	ErrInvalidCredentials:  KindUnauthenticated,
	ErrUnauthorized:        KindUnauthenticated,
	ErrInvalidToken:        KindUnauthenticated,
	ErrProfileNotFound:     KindUnauthenticated,
	ErrForbidden:           KindForbidden,
	ErrNotListingOwner:     KindForbidden,
	ErrVolunteerOnly:       KindForbidden,
	ErrRateLimited:         KindRateLimited,
	ErrNotPendingVolunteer: KindConflict,
	ErrAlreadyAdmin:        KindConflict,
	ErrNotAdmin:            KindConflict,
	ErrSelfAction:          KindConflict,
	ErrProtectedAccount:    KindForbidden,
	ErrValidation:          KindValidation,
	ErrPhoneRequired:       KindValidation,
	ErrInvalidImage:        KindValidation,
	ErrImageTooLarge:       KindValidation,
	ErrInvalidID:           KindValidation,
}

// KindOf retorna a classificação de um erro (wrapped ou não)
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}

	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	return KindInternal
}

// MessageID retorna o código i18n do erro de domínio mais externo conhecido
func MessageID(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	for sentinel := range kinds {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return "error.internal"
}

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// NewValidationError cria um erro de validação com mensagem livre
func NewValidationError(message string, err error) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    ErrValidation.Error(),
		Message: message,
		Err:     err,
	}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
