package types

import "time"

// JoinMode selects how multi-line body and affirmation text is joined.
type JoinMode string

const (
	JoinSpace   JoinMode = "space"
	JoinNewline JoinMode = "newline"
)

// Separator returns the string placed between joined lines.
func (j JoinMode) Separator() string {
	if j == JoinNewline {
		return "\n"
	}
	return " "
}

// Valid reports whether j is a known join mode. The empty mode is valid and
// means JoinSpace.
func (j JoinMode) Valid() bool {
	return j == "" || j == JoinSpace || j == JoinNewline
}

// ConversionConfig holds settings for the PDF-to-text stage.
type ConversionConfig struct {
	// OutputDir is where extracted text files are written (default "data/text").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Force re-extracts even if the text file already exists.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// ParserConfig holds settings for the entry parser.
type ParserConfig struct {
	// Year is the processing year composed into every entry date. The source
	// document has no year, so runs are reproducible only when it is fixed.
	Year int `json:"year" yaml:"year" mapstructure:"year"`

	// Join selects the join convention for body and affirmation.
	Join JoinMode `json:"join" yaml:"join" mapstructure:"join"`

	// FormatFile optionally points at a YAML marker table. Empty means the
	// built-in Latvian table.
	FormatFile string `json:"format_file,omitempty" yaml:"format_file,omitempty" mapstructure:"format_file"`

	// Format is the marker table in effect. It is filled from FormatFile or
	// the built-in table when zero.
	Format Format `json:"-" yaml:"-" mapstructure:"-"`
}

// StoreConfig holds settings for the SQLite entry store.
type StoreConfig struct {
	// Dir is the directory containing entries.db (default "data/index").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults caps search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the daily-reading HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Timezone decides which calendar day is "today" (default "Europe/Riga").
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`

	// CacheTTL is how long a day's lookup is memoized (default 5m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// RateLimit is the sustained request rate per second; zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Burst is the limiter's burst size (default 10).
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// Config groups all stage configurations.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Parser     ParserConfig     `json:"parser" yaml:"parser" mapstructure:"parser"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}
