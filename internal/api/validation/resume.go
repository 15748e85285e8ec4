package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"resume-builder/internal/catalog"
	"resume-builder/pkg/models"
)

// SessionIDPattern matches the uuid form used for session ids
var SessionIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateTemplateID accepts only catalog templates
func ValidateTemplateID(fl validator.FieldLevel) bool {
	_, ok := catalog.ParseTemplate(fl.Field().String())
	return ok
}

// ValidateRoleID accepts only catalog roles
func ValidateRoleID(fl validator.FieldLevel) bool {
	_, ok := catalog.ParseRole(fl.Field().String())
	return ok
}

// ValidateListSection accepts skills, certifications and achievements
func ValidateListSection(fl validator.FieldLevel) bool {
	return models.ListSection(fl.Field().String()).Valid()
}

// ValidateSessionID checks the session id format
func ValidateSessionID(fl validator.FieldLevel) bool {
	return SessionIDPattern.MatchString(fl.Field().String())
}

// RegisterResumeValidators registers all resume-related custom validators
func RegisterResumeValidators(v *validator.Validate) {
	_ = v.RegisterValidation("template_id", ValidateTemplateID)
	_ = v.RegisterValidation("role_id", ValidateRoleID)
	_ = v.RegisterValidation("list_section", ValidateListSection)
	_ = v.RegisterValidation("session_id", ValidateSessionID)
}
