package utils

const (
	// BookmarkIdKey is the key for bookmark ID used in routing parameters.
	BookmarkIdKey = "bookmarkId"

	// CategoryIdKey is the key for category ID used in routing parameters.
	CategoryIdKey = "categoryId"

	// TagIdKey is the key for tag ID used in routing parameters.
	TagIdKey = "tagId"

	// ShareTokenKey is the key for share tokens used in routing parameters.
	ShareTokenKey = "token"

	// KeywordParamKey is the key for search keywords used in query parameters.
	KeywordParamKey = "keyword"
)
