package domain

// Storage drivers.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// File storage drivers.
const (
	FileDriverLocal    = "local"
	FileDriverSupabase = "supabase"
)

// Settings holds all application settings.
// Values are layered: defaults, then the TOML config file, then environment.
type Settings struct {
	Server     ServerSettings     `toml:"server"`
	Storage    StorageSettings    `toml:"storage"`
	Files      FileSettings       `toml:"files"`
	Gemini     GeminiSettings     `toml:"gemini"`
	Ingestion  IngestionSettings  `toml:"ingestion"`
	Retrieval  RetrievalSettings  `toml:"retrieval"`
	Dispatcher DispatcherSettings `toml:"dispatcher"`
	Watcher    WatcherSettings    `toml:"watcher"`
	Log        LogSettings        `toml:"log"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string `toml:"addr" env:"DOCLEY_ADDR"`

	// PromptDir holds user-editable prompt templates.
	// Empty means ~/.docley/prompts.
	PromptDir string `toml:"prompt_dir" env:"DOCLEY_PROMPT_DIR"`
}

// StorageSettings selects the document and chunk store.
type StorageSettings struct {
	// Driver is one of memory, sqlite or postgres.
	Driver string `toml:"driver" env:"DOCLEY_STORAGE_DRIVER"`

	// DataDir is where the sqlite database lives. Empty means ~/.docley/data.
	DataDir string `toml:"data_dir" env:"DOCLEY_DATA_DIR"`

	// DatabaseURL is the Postgres connection string (Supabase pooler URL).
	DatabaseURL string `toml:"database_url" env:"DOCLEY_DATABASE_URL"`
}

// FileSettings selects where uploaded files are downloaded from.
type FileSettings struct {
	// Driver is one of local or supabase.
	Driver string `toml:"driver" env:"DOCLEY_FILES_DRIVER"`

	// Root is the local upload directory.
	Root string `toml:"root" env:"DOCLEY_FILES_ROOT"`

	// SupabaseURL is the project URL, e.g. https://abc.supabase.co.
	SupabaseURL string `toml:"supabase_url" env:"SUPABASE_URL"`

	// SupabaseKey is the service-role key used for storage downloads.
	SupabaseKey string `toml:"supabase_key" env:"SUPABASE_SERVICE_ROLE_KEY"`

	// Bucket is the storage bucket holding uploads.
	Bucket string `toml:"bucket" env:"DOCLEY_FILES_BUCKET"`

	// TimeoutSeconds bounds a single download.
	TimeoutSeconds int `toml:"timeout_seconds" env:"DOCLEY_FILES_TIMEOUT_SECONDS"`
}

// GeminiSettings configures the hosted embedding and generation models.
type GeminiSettings struct {
	// APIKey enables the embedding and generation services when set.
	APIKey string `toml:"api_key" env:"GEMINI_API_KEY"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model" env:"GEMINI_EMBEDDING_MODEL"`

	// GenerationModel is the text generation model name.
	GenerationModel string `toml:"generation_model" env:"GEMINI_MODEL"`

	// Temperature controls generation randomness.
	Temperature float32 `toml:"temperature" env:"GEMINI_TEMPERATURE"`

	// RequestsPerSecond caps the sustained embedding request rate.
	RequestsPerSecond float64 `toml:"requests_per_second" env:"GEMINI_REQUESTS_PER_SECOND"`

	// Burst is the token bucket size for embedding requests.
	Burst int `toml:"burst" env:"GEMINI_BURST"`

	// CacheSize is the number of embeddings kept in memory. Zero disables caching.
	CacheSize int `toml:"cache_size" env:"GEMINI_CACHE_SIZE"`

	// CacheTTLSeconds is how long a cached embedding stays valid.
	CacheTTLSeconds int `toml:"cache_ttl_seconds" env:"GEMINI_CACHE_TTL_SECONDS"`
}

// IsConfigured returns true if Gemini can be used.
func (g GeminiSettings) IsConfigured() bool {
	return g.APIKey != ""
}

// IngestionSettings configures chunking.
type IngestionSettings struct {
	// TokenBudget is the target chunk size in tokens.
	TokenBudget int `toml:"token_budget" env:"DOCLEY_CHUNK_TOKENS"`

	// CharsPerToken approximates tokens from characters.
	CharsPerToken int `toml:"chars_per_token" env:"DOCLEY_CHARS_PER_TOKEN"`

	// Markdown parses .md files instead of ingesting them as raw text.
	Markdown bool `toml:"markdown" env:"DOCLEY_PARSE_MARKDOWN"`
}

// MaxChunkChars returns the character budget for a chunk.
func (i IngestionSettings) MaxChunkChars() int {
	return i.TokenBudget * i.CharsPerToken
}

// RetrievalSettings configures similarity search.
type RetrievalSettings struct {
	// Threshold is the minimum similarity for a chunk to be relevant.
	Threshold float64 `toml:"threshold" env:"DOCLEY_MATCH_THRESHOLD"`

	// Limit is the default number of chunks retrieved.
	Limit int `toml:"limit" env:"DOCLEY_MATCH_LIMIT"`
}

// DispatcherSettings configures the background ingestion queue.
type DispatcherSettings struct {
	// Workers is the number of concurrent ingestion runs.
	Workers int `toml:"workers" env:"DOCLEY_INGEST_WORKERS"`

	// QueueSize is the number of pending runs accepted before Submit fails.
	QueueSize int `toml:"queue_size" env:"DOCLEY_INGEST_QUEUE"`
}

// WatcherSettings configures the local upload watcher.
type WatcherSettings struct {
	// Enabled starts the watcher with the server when files use the local driver.
	Enabled bool `toml:"enabled" env:"DOCLEY_WATCH_UPLOADS"`
}

// LogSettings configures logging.
type LogSettings struct {
	// Verbose enables debug output.
	Verbose bool `toml:"verbose" env:"DOCLEY_VERBOSE"`
}

// DefaultSettings returns settings with sensible defaults.
// Gemini is left unconfigured; without an API key the service runs
// without embeddings or generation.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Addr: ":8080",
		},
		Storage: StorageSettings{
			Driver: StorageDriverSQLite,
		},
		Files: FileSettings{
			Driver:         FileDriverLocal,
			Root:           "./uploads",
			Bucket:         "documents",
			TimeoutSeconds: 60,
		},
		Gemini: GeminiSettings{
			EmbeddingModel:    "text-embedding-004",
			GenerationModel:   "gemini-2.0-flash",
			Temperature:       0.4,
			RequestsPerSecond: 10,
			Burst:             20,
			CacheSize:         1024,
			CacheTTLSeconds:   900,
		},
		Ingestion: IngestionSettings{
			TokenBudget:   1000,
			CharsPerToken: 4,
		},
		Retrieval: RetrievalSettings{
			Threshold: DefaultMatchThreshold,
			Limit:     DefaultMatchLimit,
		},
		Dispatcher: DispatcherSettings{
			Workers:   4,
			QueueSize: 256,
		},
	}
}
