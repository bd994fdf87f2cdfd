package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateNew trims and checks a create payload. Names must be non-blank.
func ValidateNew(data NewEntity) (NewEntity, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Location = strings.TrimSpace(data.Location)
	data.AssetRef = strings.TrimSpace(data.AssetRef)
	if data.Status == "" {
		data.Status = StatusPending
	}
	if err := validate.Struct(data); err != nil {
		return data, validationError(err)
	}
	return data, nil
}

// ValidateUpdate trims and checks an update payload.
func ValidateUpdate(data Update) (Update, error) {
	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		data.Name = &name
	}
	if data.Location != nil {
		loc := strings.TrimSpace(*data.Location)
		data.Location = &loc
	}
	if data.AssetRef != nil {
		ref := strings.TrimSpace(*data.AssetRef)
		data.AssetRef = &ref
	}
	if err := validate.Struct(data); err != nil {
		return data, validationError(err)
	}
	return data, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, ", "))
}
