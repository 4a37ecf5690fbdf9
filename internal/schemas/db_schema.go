// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`         // Unique identifier for the user.
	Email     string    `json:"email"`      // Email address of the user, unique.
	Password  string    `json:"password"`   // Password hash of the user.
	Nickname  string    `json:"nickname"`   // Display nickname of the user.
	Verified  bool      `json:"verified"`   // Whether the email address was verified before signup.
	CreatedAt time.Time `json:"created_at"` // Timestamp when the user was created.
}

// Tag is a free-form label owned by one user. Names are stored case-sensitively
// but resolved case-insensitively.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark references its tags by id. Every referenced tag id belongs to the
// bookmark's owner, which tag resolution enforces.
type Bookmark struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Favorite    bool        `json:"favorite"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Category is a saved filter: its contents are computed on read as the owner's
// bookmarks whose tag set intersects the category's tag set.
type Category struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Title     string      `json:"title"`
	TagIDs    []uuid.UUID `json:"tag_ids"`
	IsPublic  bool        `json:"is_public"`
	CreatedAt time.Time   `json:"created_at"`
}

// ShareToken maps an opaque random token to one category. At most one token
// exists per category.
type ShareToken struct {
	Token      string    `json:"token"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RefreshToken is the single-slot record of the most recently issued refresh
// token per user. Reissuing supersedes the prior record.
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailVerification is the pending one-time code for an email address.
type EmailVerification struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
}
