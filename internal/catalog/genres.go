package catalog

// Genre maps a user-facing category to the provider-specific search query.
// Labels are localized through the i18n bundle under "genre.<key>"; caching
// is keyed by Key so repeated selections stay cheap even if the query syntax
// changes.
type Genre struct {
	Key   string
	Query string
}

// Genres is the browsable genre list, in keyboard display order.
var Genres = []Genre{
	{Key: "fantasy", Query: "subject:fantasy"},
	{Key: "scifi", Query: "subject:science fiction"},
	{Key: "detective", Query: "subject:detective"},
	{Key: "romance", Query: "subject:romance"},
	{Key: "horror", Query: "subject:horror"},
	{Key: "biography", Query: "subject:biography"},
	{Key: "thriller", Query: "subject:thriller"},
	{Key: "poetry", Query: "subject:poetry"},
}

// GenreByKey resolves a genre by its stable key.
func GenreByKey(key string) (Genre, bool) {
	for _, genre := range Genres {
		if genre.Key == key {
			return genre, true
		}
	}

	return Genre{}, false
}

// LabelKeys returns the i18n keys for every genre label, appended to the
// required-key validation at startup.
func LabelKeys() []string {
	keys := make([]string, 0, len(Genres))
	for _, genre := range Genres {
		keys = append(keys, LabelKey(genre.Key))
	}
	return keys
}

// LabelKey returns the i18n key for a genre's display label.
func LabelKey(genreKey string) string {
	return "genre." + genreKey
}
