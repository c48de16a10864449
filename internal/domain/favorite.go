package domain

// Favorite is a user-bookmarked book, deduplicated by BookID per user.
// JSON tags match the persisted file layout.
type Favorite struct {
	BookID   string `json:"book_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
}

// Stats is the aggregate snapshot maintained by the store. It is recomputed
// eagerly on every mutating operation, never derived lazily.
type Stats struct {
	TotalUsers     int `json:"total_users"`
	TotalFavorites int `json:"total_favorites"`
}

// UserProfile is the per-user record kept in the durable store.
type UserProfile struct {
	Language string `json:"language"`
}

// Supported interface languages. Unknown users default to Russian.
const (
	LangRU = "ru"
	LangEN = "en"

	DefaultLanguage = LangRU
)

// IsSupportedLanguage reports whether lang is one of the interface languages.
func IsSupportedLanguage(lang string) bool {
	return lang == LangRU || lang == LangEN
}
