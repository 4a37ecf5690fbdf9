package schemas

// CustomError is a domain failure with a stable message, surfaced to clients
// inside the ErrorDTO envelope.
type CustomError struct {
	Message string `json:"message"`
}

var (
	BadRequest          = &CustomError{Message: "The request body is invalid. Please check the request body and try again."}
	InternalServerError = &CustomError{Message: "An internal server error occurred. Please try again later."}
	DatabaseError       = &CustomError{Message: "A database error occurred. Please try again later."}

	EmailNotFound      = &CustomError{Message: "No account exists for this email address."}
	InvalidCredentials = &CustomError{Message: "The password does not match."}
	InvalidToken       = &CustomError{Message: "The token is invalid or expired."}
	Unauthorized       = &CustomError{Message: "The request is unauthorized. Please login to your account."}
	RefreshTokenStale  = &CustomError{Message: "The refresh token does not match the active session."}

	EmailTaken        = &CustomError{Message: "This email address is already registered."}
	EmailNotVerified  = &CustomError{Message: "The email address has not been verified yet."}
	EmailUnreachable  = &CustomError{Message: "The email address seems to be unreachable."}
	EmailNotSent      = &CustomError{Message: "The verification mail could not be sent."}
	CodeMismatch      = &CustomError{Message: "The verification code does not match."}
	CodeExpired       = &CustomError{Message: "The verification code is expired."}

	TagNotFound      = &CustomError{Message: "The tag could not be found."}
	TagNameTaken     = &CustomError{Message: "A tag with this name already exists."}
	BookmarkNotFound = &CustomError{Message: "The bookmark could not be found."}
	CategoryNotFound = &CustomError{Message: "The category could not be found."}
	InvalidShareLink = &CustomError{Message: "The share link is invalid."}
)
