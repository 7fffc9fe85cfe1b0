package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	phonePattern    = regexp.MustCompile(`^05\d{8}$`)
)

// RegisterValidators adiciona as tags de domínio ao validator usado pelo gin
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"username":         validateUsername,
		"strong_password":  validateStrongPassword,
		"il_phone":         validatePhone,
		"merhav":           validateMerhav,
		"category":         validateCategory,
		"transaction_type": validateTransactionType,
	}

	v.RegisterTagNameFunc(fieldName)

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// fieldName usa o nome do JSON (ou do formulário) nas mensagens de erro
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateStrongPassword exige minúscula, maiúscula e dígito; o tamanho fica com min=8
func validateStrongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateMerhav(fl validator.FieldLevel) bool {
	return entities.Merhav(fl.Field().String()).IsValid()
}

func validateCategory(fl validator.FieldLevel) bool {
	return entities.Category(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return entities.TransactionType(fl.Field().String()).IsValid()
}

var tagMessages = map[string]string{
	"required":         "is required",
	"email":            "must be a valid email",
	"min":              "is too short",
	"max":              "is too long",
	"username":         "must be 3-20 characters of letters, digits or underscore",
	"strong_password":  "must contain upper case, lower case letters and digits",
	"il_phone":         "must be a mobile number like 05XXXXXXXX",
	"merhav":           "is not a known merhav",
	"category":         "is not a known category",
	"transaction_type": "is not a known transaction type",
}

// FieldErrors converte erros de binding em detalhes por campo.
// Erros que não vêm do validator (JSON malformado) viram um único item.
func FieldErrors(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		message, ok := tagMessages[fe.Tag()]
		if !ok {
			message = "is invalid"
		}
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: message,
			Tag:     fe.Tag(),
		})
	}
	return details
}
