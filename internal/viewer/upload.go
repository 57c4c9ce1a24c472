package viewer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Upload is a skin file received from the native file picker or a drop zone
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	return "The uploaded file is invalid and cannot be loaded"
}

func createUploadValidator() *uploadValidator {
	validate := validator.New()

	_ = validate.RegisterValidation("png_ext", func(fl validator.FieldLevel) bool {
		return strings.EqualFold(filepath.Ext(fl.Field().String()), ".png")
	})

	_ = validate.RegisterValidation("png_signature", func(fl validator.FieldLevel) bool {
		return bytes.HasPrefix(fl.Field().Bytes(), pngSignature)
	})

	validate.RegisterStructValidationMapRules(map[string]string{
		"Filename":    "required,png_ext",
		"ContentType": "omitempty,eq=image/png",
		"Data":        fmt.Sprintf("required,max=%d,png_signature", MaxUploadSize),
	}, Upload{})

	return &uploadValidator{validate}
}

type uploadValidator struct {
	validate *validator.Validate
}

func (v *uploadValidator) Validate(upload *Upload) error {
	validationErrors := v.validate.Struct(upload)
	if validationErrors == nil {
		return nil
	}

	return mapValidationErrorsToCommonError(validationErrors.(validator.ValidationErrors))
}

func mapValidationErrorsToCommonError(err validator.ValidationErrors) *ValidationError {
	resultErr := &ValidationError{make(map[string][]string)}
	for _, e := range err {
		// The validator can return multiple errors per field, but the current
		// implementation returns only one error per field
		resultErr.Errors[e.Field()] = []string{formatValidationErr(e)}
	}

	return resultErr
}

// The go-playground/validator lib already contains tools for translated errors output.
// However, the implementation is very heavy and becomes even more so when you need to add
// messages for custom validators. So for simplicity, validation error formatting lives
// in this simple implementation
func formatValidationErr(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", err.Field())
	case "png_ext":
		return fmt.Sprintf("%s must have the .png extension", err.Field())
	case "eq":
		return fmt.Sprintf("%s must be %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s bytes", err.Field(), err.Param())
	case "png_signature":
		return fmt.Sprintf("%s must be a valid png image", err.Field())
	default:
		return fmt.Sprintf(`Field validation for "%s" failed on the "%s" tag`, err.Field(), err.Tag())
	}
}
