package i18n

// Message keys used by the bot. Collected in one place so the bundle can be
// validated at startup.
const (
	KeyStart                  = "msg.start"
	KeyHelp                   = "msg.help"
	KeySearching              = "msg.searching"
	KeyNoBooks                = "msg.no_books"
	KeyPages                  = "msg.pages"
	KeyPagesUnknown           = "msg.pages_unknown"
	KeyDescription            = "msg.description"
	KeyNoDescription          = "msg.no_description"
	KeyTranslatedDescription  = "msg.translated_description"
	KeyAddedToFavorites       = "msg.added_to_favorites"
	KeyAlreadyInFavorites     = "msg.already_in_favorites"
	KeyFavoritesEmpty         = "msg.favorites_empty"
	KeyChooseGenre            = "msg.choose_genre"
	KeyChooseLanguage         = "msg.choose_language"
	KeyUnknownCommand         = "msg.unknown_command"
	KeyInternalError          = "msg.internal_error"
	KeyRateLimited            = "msg.rate_limited"
	KeyBookTitle              = "msg.book_title"
	KeyBookAuthor             = "msg.book_author"
	KeyNoTitle                = "msg.no_title"
	KeyUnknownAuthor          = "msg.unknown_author"
	KeyAdminPanel             = "admin.panel"
	KeyAdminStats             = "admin.stats"
	KeyAdminTotalUsers        = "admin.total_users"
	KeyAdminTotalFavorites    = "admin.total_favorites"
	KeyAdminBackupCreated     = "admin.backup_created"
	KeyAdminBackupFailed      = "admin.backup_failed"
	KeyAdminCacheCleared      = "admin.cache_cleared"
	KeyAdminCacheClearFailed  = "admin.cache_clear_failed"
	KeyBtnFavorites           = "btn.favorites"
	KeyBtnPages               = "btn.pages"
	KeyBtnDescription         = "btn.description"
	KeyBtnAddFavorite         = "btn.add_favorite"
	KeyBtnNext                = "btn.next"
	KeyBtnNewGenre            = "btn.new_genre"
	KeyBtnAdminStats          = "btn.admin_stats"
	KeyBtnAdminBackup         = "btn.admin_backup"
	KeyBtnAdminClearCache     = "btn.admin_clear_cache"
	KeyBtnAdminBack           = "btn.admin_back"
)

// RequiredKeys lists every key that must be present in every language bundle.
// Genre labels are appended by the catalog package at startup.
var RequiredKeys = []string{
	KeyStart,
	KeyHelp,
	KeySearching,
	KeyNoBooks,
	KeyPages,
	KeyPagesUnknown,
	KeyDescription,
	KeyNoDescription,
	KeyTranslatedDescription,
	KeyAddedToFavorites,
	KeyAlreadyInFavorites,
	KeyFavoritesEmpty,
	KeyChooseGenre,
	KeyChooseLanguage,
	KeyUnknownCommand,
	KeyInternalError,
	KeyRateLimited,
	KeyBookTitle,
	KeyBookAuthor,
	KeyNoTitle,
	KeyUnknownAuthor,
	KeyAdminPanel,
	KeyAdminStats,
	KeyAdminTotalUsers,
	KeyAdminTotalFavorites,
	KeyAdminBackupCreated,
	KeyAdminBackupFailed,
	KeyAdminCacheCleared,
	KeyAdminCacheClearFailed,
	KeyBtnFavorites,
	KeyBtnPages,
	KeyBtnDescription,
	KeyBtnAddFavorite,
	KeyBtnNext,
	KeyBtnNewGenre,
	KeyBtnAdminStats,
	KeyBtnAdminBackup,
	KeyBtnAdminClearCache,
	KeyBtnAdminBack,
}
