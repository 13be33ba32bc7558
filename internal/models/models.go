package models

import (
	"encoding/json"
	"time"
)

// FieldType is the declared type of a form field
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeEmail       FieldType = "email"
	FieldTypeNumber      FieldType = "number"
	FieldTypeTel         FieldType = "tel"
	FieldTypeDate        FieldType = "date"
	FieldTypeTime        FieldType = "time"
	FieldTypeLink        FieldType = "link"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiple    FieldType = "multiple"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRating      FieldType = "rating"
	FieldTypeLinearScale FieldType = "linearScale"
	FieldTypeHeading1    FieldType = "heading1"
	FieldTypeHeading2    FieldType = "heading2"
	FieldTypeHeading3    FieldType = "heading3"
	FieldTypeParagraph   FieldType = "paragraph"
	FieldTypeTitle       FieldType = "title"
	FieldTypeLabel       FieldType = "label"
	FieldTypeDivider     FieldType = "divider"
)

var knownFieldTypes = map[FieldType]bool{
	FieldTypeText: true, FieldTypeTextarea: true, FieldTypeEmail: true, FieldTypeNumber: true,
	FieldTypeTel: true, FieldTypeDate: true, FieldTypeTime: true, FieldTypeLink: true,
	FieldTypeSelect: true, FieldTypeMultiple: true, FieldTypeCheckbox: true, FieldTypeRating: true,
	FieldTypeLinearScale: true, FieldTypeHeading1: true, FieldTypeHeading2: true, FieldTypeHeading3: true,
	FieldTypeParagraph: true, FieldTypeTitle: true, FieldTypeLabel: true, FieldTypeDivider: true,
}

// Valid reports whether t is one of the supported field types
func (t FieldType) Valid() bool {
	return knownFieldTypes[t]
}

// IsCategorical reports whether answers are selections from an option set
func (t FieldType) IsCategorical() bool {
	return t == FieldTypeSelect || t == FieldTypeMultiple || t == FieldTypeCheckbox
}

// IsDisplayOnly reports whether the field only renders content and never collects an answer
func (t FieldType) IsDisplayOnly() bool {
	switch t {
	case FieldTypeHeading1, FieldTypeHeading2, FieldTypeHeading3,
		FieldTypeParagraph, FieldTypeTitle, FieldTypeLabel, FieldTypeDivider:
		return true
	}
	return false
}

// FieldSchema is a single question definition within a form.
// Label is the key under which answers are stored in a response payload.
type FieldSchema struct {
	Label     string    `json:"label"`
	Type      FieldType `json:"type"`
	Options   []string  `json:"options,omitempty"`
	MaxRating *int      `json:"maxRating,omitempty"`
	Required  bool      `json:"required,omitempty"`
}

// User represents a form owner
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Form represents a form definition owned by a user
type Form struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"userId"`
	Title               string        `json:"title"`
	Description         *string       `json:"description"`
	FormCode            string        `json:"formCode"`
	Fields              []FieldSchema `json:"fields"`
	LogoData            *string       `json:"logoData"`
	ThankYouMessage     *string       `json:"thankYouMessage"`
	ThankYouRedirectURL *string       `json:"thankYouRedirectUrl"`
	CloseDate           *time.Time    `json:"closeDate"`
	ResponseLimit       *int          `json:"responseLimit"`
	IsDeleted           bool          `json:"isDeleted"`
	DeletedAt           *time.Time    `json:"deletedAt,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
	ResponseCount       int           `json:"responseCount"`
}

// IsClosed reports whether the form's close date has passed
func (f *Form) IsClosed(now time.Time) bool {
	return f.CloseDate != nil && now.After(*f.CloseDate)
}

// LimitReached reports whether the form has collected its maximum number of responses
func (f *Form) LimitReached() bool {
	return f.ResponseLimit != nil && f.ResponseCount >= *f.ResponseLimit
}

// PublicForm is the subset of a form shown to respondents
type PublicForm struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Description         *string       `json:"description"`
	Fields              []FieldSchema `json:"fields"`
	LogoData            *string       `json:"logoData"`
	ThankYouMessage     *string       `json:"thankYouMessage"`
	ThankYouRedirectURL *string       `json:"thankYouRedirectUrl"`
	CreatedAt           time.Time     `json:"createdAt"`
}

// Response is one respondent's submitted answer set
type Response struct {
	ID           string          `json:"id"`
	FormID       string          `json:"formId"`
	ResponseData json.RawMessage `json:"responseData"`
	IPAddress    *string         `json:"-"`
	UserAgent    *string         `json:"-"`
	SubmittedAt  time.Time       `json:"submittedAt"`
}

// CreateFormRequest represents the request to create a form
type CreateFormRequest struct {
	Title               string        `json:"title" binding:"required,max=255"`
	Description         *string       `json:"description"`
	Fields              []FieldSchema `json:"fields"`
	LogoData            *string       `json:"logoData"`
	ThankYouMessage     *string       `json:"thankYouMessage" binding:"omitempty,max=1000"`
	ThankYouRedirectURL *string       `json:"thankYouRedirectUrl" binding:"omitempty,max=500"`
	CloseDate           *time.Time    `json:"closeDate"`
	ResponseLimit       *int          `json:"responseLimit" binding:"omitempty,min=1"`
}

// UpdateFormRequest represents a partial update of a form.
// Nullable fields distinguish "leave unchanged" from "clear".
type UpdateFormRequest struct {
	Title               *string        `json:"title"`
	Description         NullableString `json:"description"`
	Fields              []FieldSchema  `json:"fields"`
	LogoData            NullableString `json:"logoData"`
	ThankYouMessage     NullableString `json:"thankYouMessage"`
	ThankYouRedirectURL NullableString `json:"thankYouRedirectUrl"`
	CloseDate           NullableTime   `json:"closeDate"`
	ResponseLimit       NullableInt    `json:"responseLimit"`
}

// SubmitResponseRequest represents a public form submission
type SubmitResponseRequest struct {
	FormCode     string         `json:"formCode" binding:"required"`
	ResponseData map[string]any `json:"responseData" binding:"required"`
}

// SubmissionMeta carries request metadata stored alongside a response
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
}

// RegisterRequest represents the signup request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// QRCodeRequest represents a request for a form share QR code
type QRCodeRequest struct {
	FormCode string `json:"formCode" binding:"required"`
	FormURL  string `json:"formUrl"`
}

// QRCodeResponse carries the QR code as a PNG data URL
type QRCodeResponse struct {
	QRCode string `json:"qrcode"`
	URL    string `json:"url"`
}

// IdempotencyKey stores the first response to a keyed create request so a
// retried request replays it instead of creating a second form.
type IdempotencyKey struct {
	Key          string          `json:"key"`
	Route        string          `json:"route"`
	UserID       string          `json:"userId"`
	ResponseBody json.RawMessage `json:"responseBody"`
	StatusCode   int             `json:"statusCode"`
	CreatedAt    time.Time       `json:"createdAt"`
}
