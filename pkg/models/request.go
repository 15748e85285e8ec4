package models

// CreateSessionRequest starts a new editing session for a role
type CreateSessionRequest struct {
	Role string `json:"role" validate:"required,max=64"`
}

// SetFieldRequest writes one scalar field of the document
type SetFieldRequest struct {
	Path  string `json:"path" validate:"required"`
	Value string `json:"value"`
}

// SessionPath is the :id parameter of session routes
type SessionPath struct {
	ID string `param:"id" validate:"required,session_id"`
}

// RolePath is the :role parameter of the role lookup route
type RolePath struct {
	Role string `param:"role" validate:"required,role_id"`
}

// ListItemRequest carries the text for a list section. A nil Value on add
// means "commit whatever is in the input buffer".
type ListItemRequest struct {
	Section string  `param:"section" json:"-" validate:"list_section"`
	Value   *string `json:"value,omitempty"`
}

// ListItemPath addresses one item of a list section
type ListItemPath struct {
	Section string `param:"section" validate:"list_section"`
	Index   int    `param:"index"`
}

// EditEntryRequest writes one field of one repeatable record
type EditEntryRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// StepRequest moves the form step pointer
type StepRequest struct {
	Action string `json:"action" validate:"required,oneof=next previous goto"`
	Step   int    `json:"step"`
}

// SelectTemplateRequest stores the chosen template for the session
type SelectTemplateRequest struct {
	Template string `json:"template" validate:"required,template_id"`
}

// ExportResumeRequest asks for a print export of the session document
type ExportResumeRequest struct {
	Template string `json:"template" validate:"omitempty,template_id"`
}

// ContactRequest is the contact form payload
type ContactRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=120"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Subject     string `json:"subject" form:"subject" validate:"required,max=200"`
	InquiryType string `json:"inquiryType" form:"inquiryType" validate:"required,oneof=general support bug feature"`
	Message     string `json:"message" form:"message" validate:"required,max=5000"`
}
