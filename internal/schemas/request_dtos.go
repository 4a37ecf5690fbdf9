// Package schemas defines the request structures for various operations in the application.
package schemas

// SignupRequest is a struct that represents a signup request
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
// Nickname is required and must be less than 25 characters
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password_validation"`
	Nickname string `json:"nickname" validate:"required,max=25"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshTokenRequest is a struct that represents a RefreshToken request
// RefreshToken is required and must be a valid refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SendCodeRequest is a struct that represents a verification-code request
type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest is a struct that represents a verification-code check
// Code is required and must be a 6-digit number
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}

// CreateBookmarkRequest is a struct that represents a create bookmark request
// TagNames are resolved to tag ids scoped to the requesting user
type CreateBookmarkRequest struct {
	Url         string   `json:"url" validate:"required,url,max=2048"`
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Favorite    bool     `json:"favorite"`
	TagNames    []string `json:"tagNames" validate:"dive,required,max=40"`
}

// UpdateBookmarkRequest replaces every bookmark field; tags are re-resolved
// from the given names.
type UpdateBookmarkRequest struct {
	Url         string   `json:"url" validate:"required,url,max=2048"`
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Favorite    bool     `json:"favorite"`
	TagNames    []string `json:"tagNames" validate:"dive,required,max=40"`
}

// CreateCategoryRequest is a struct that represents a create category request
type CreateCategoryRequest struct {
	Title    string   `json:"title" validate:"required,max=100"`
	TagNames []string `json:"tagNames" validate:"dive,required,max=40"`
	IsPublic bool     `json:"isPublic"`
}

// UpdateCategoryRequest replaces title, tags and visibility of a category.
type UpdateCategoryRequest struct {
	Title    string   `json:"title" validate:"required,max=100"`
	TagNames []string `json:"tagNames" validate:"dive,required,max=40"`
	IsPublic bool     `json:"isPublic"`
}

// CreateTagRequest is a struct that represents a create tag request
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=40"`
}

// UpdateTagRequest is a struct that represents a tag rename request
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,max=40"`
}
