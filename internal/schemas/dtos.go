package schemas

// ErrorDTO is the uniform error envelope. Error carries the HTTP reason
// phrase, Message the specific failure.
type ErrorDTO struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// MetadataDTO is returned on the version route.
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}

// UserDTO is the minimal user view returned after signup and login.
type UserDTO struct {
	UserId   string `json:"userId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// TokenPairDTO is a struct that represents a token response
// Token is the main JWT token used for auth
// RefreshToken is the refresh token used to get a new token
type TokenPairDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponseDTO bundles the token pair with the minimal user view.
type LoginResponseDTO struct {
	Token        string  `json:"token"`
	RefreshToken string  `json:"refreshToken"`
	User         UserDTO `json:"user"`
}

// TagDTO is a struct that represents a tag response
type TagDTO struct {
	TagId string `json:"tagId"`
	Name  string `json:"name"`
}

// BookmarkDTO is a struct that represents a bookmark response, decorated with
// the views of the tags it references.
type BookmarkDTO struct {
	BookmarkId   string   `json:"bookmarkId"`
	Url          string   `json:"url"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Favorite     bool     `json:"favorite"`
	CreationDate string   `json:"creationDate"`
	Tags         []TagDTO `json:"tags"`
}

// CategoryDTO is a struct that represents a category response
type CategoryDTO struct {
	CategoryId   string   `json:"categoryId"`
	Title        string   `json:"title"`
	TagNames     []string `json:"tagNames"`
	IsPublic     bool     `json:"isPublic"`
	CreationDate string   `json:"creationDate"`
}

// ShareTokenDTO carries the opaque token unlocking one category.
type ShareTokenDTO struct {
	Token string `json:"token"`
}

// SharedCategoryDTO is the read-only projection returned to holders of a
// share token. It never exposes bookmarks outside the category's tag scope.
type SharedCategoryDTO struct {
	CategoryId string        `json:"categoryId"`
	Title      string        `json:"title"`
	TagNames   []string      `json:"tagNames"`
	Bookmarks  []BookmarkDTO `json:"bookmarks"`
}

// MessageDTO is a plain confirmation response.
type MessageDTO struct {
	Message string `json:"message"`
}
