package services

import (
	"fmt"

	"github.com/go-playground/validator"

	"conferencecentral/internal/domain"
)

// go-playground/validator suggests using a single instance of the
// validator; it caches struct metadata.
var validate = validator.New()

// validateInput validates a struct with its validate tags and maps
// failures onto the validation error class.
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
