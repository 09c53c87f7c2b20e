package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "campos inválidos: " + strings.Join(parts, ", ")
}

func ValidateContact(c models.Contact) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidContact, describeValidation(err))
	}
	return nil
}

// ValidateSettings checks the settings and drops ServerURL outside server mode.
func ValidateSettings(s models.AppSettings) (models.AppSettings, error) {
	if err := validate.Struct(s); err != nil {
		return s, fmt.Errorf("%w: %s", models.ErrInvalidSettings, describeValidation(err))
	}
	if s.IntegrationMode != models.IntegrationServer {
		s.ServerURL = ""
		return s, nil
	}
	if !utils.IsURL(s.ServerURL) {
		return s, fmt.Errorf("%w: serverUrl inválida %q", models.ErrInvalidSettings, s.ServerURL)
	}
	return s, nil
}
