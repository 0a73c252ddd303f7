package httputil

// Machine-readable error codes returned alongside error messages so API
// clients can branch without parsing human-readable text.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeEmailRequired      = "email_required"
	CodeInvalidEmailFormat = "invalid_email_format"
	CodePasswordRequired   = "password_required"
	CodePasswordTooShort   = "password_too_short"
	CodeEmailAlreadyExists = "email_already_exists"
	CodeTextRequired       = "text_required"

	CodeMissingAuth        = "missing_auth"
	CodeInvalidToken       = "invalid_token"
	CodeInvalidCredentials = "invalid_credentials"

	CodeNotFound        = "not_found"
	CodeTooManyRequests = "too_many_requests"
	CodeStoreFailure    = "store_failure"
)
