package apierror

// Error type URIs following the urn:formcraft:error:* pattern.
const (
	TypeValidation    = "urn:formcraft:error:validation"
	TypeNotFound      = "urn:formcraft:error:not_found"
	TypeConflict      = "urn:formcraft:error:conflict"
	TypeRateLimit     = "urn:formcraft:error:rate_limit"
	TypeUnauthorized  = "urn:formcraft:error:unauthorized"
	TypeForbidden     = "urn:formcraft:error:forbidden"
	TypeInternal      = "urn:formcraft:error:internal"
	TypeInvalidUUID   = "urn:formcraft:error:invalid_uuid"
	TypeBadRequest    = "urn:formcraft:error:bad_request"
	TypeFormClosed    = "urn:formcraft:error:form_closed"
	TypeResponseLimit = "urn:formcraft:error:response_limit"
)

// Titles for each error type
const (
	TitleValidation    = "Validation Error"
	TitleNotFound      = "Resource Not Found"
	TitleConflict      = "Resource Conflict"
	TitleRateLimit     = "Rate Limit Exceeded"
	TitleUnauthorized  = "Authentication Required"
	TitleForbidden     = "Permission Denied"
	TitleInternal      = "Internal Server Error"
	TitleInvalidUUID   = "Invalid UUID Format"
	TitleBadRequest    = "Bad Request"
	TitleFormClosed    = "Form Closed"
	TitleResponseLimit = "Response Limit Reached"
)
