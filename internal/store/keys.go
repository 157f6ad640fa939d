package store

// Reserved logical key names. Every piece of persisted application state
// lives under one of these, prefixed with the store namespace.
const (
	KeyTheme                = "theme"
	KeyCurrency             = "currency"
	KeyLanguage             = "language"
	KeyFavorites            = "favorites"
	KeyWatchlist            = "watchlist"
	KeyAlerts               = "alerts"
	KeyPortfolio            = "portfolio"
	KeyTransactions         = "transactions"
	KeyPriceCache           = "price_cache"
	KeyMarketDataCache      = "market_data_cache"
	KeyCoinListCache        = "coin_list_cache"
	KeyRecentSearches       = "recent_searches"
	KeyChartPreferences     = "chart_preferences"
	KeyNotificationSettings = "notification_settings"
	KeyLastVisited          = "last_visited"
	KeySessionData          = "session_data"
)

// CachePrefix namespaces cache-layer entries apart from direct-use keys.
const CachePrefix = "cache_"
