package shared

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	PlaceholderPlaylistID = "PUT_PLAYLIST_ID_HERE"
	PlaceholderAPIKey     = "PUT_KEY_HERE"

	// ConfigDirName is the directory under XDG_CONFIG_HOME that holds config.json.
	ConfigDirName  = "youtubeSync"
	ConfigFileName = "config.json"

	SourceAPI       = "api"
	SourceInnertube = "innertube"

	DownloaderExec  = "exec"
	DownloaderYtdlp = "go-ytdlp"

	TaggerID3  = "id3"
	TaggerExec = "exec"
)

// Config represents the application configuration loaded from a JSON or TOML file.
//
// JSON keys keep the legacy youtubeSync config.json layout (playlistID, googleAPIKey, destination).
type Config struct {
	PlaylistID  string           `json:"playlistID" toml:"playlist_id"`
	APIKey      string           `json:"googleAPIKey" toml:"api_key"`
	Destination string           `json:"destination" toml:"destination"`
	AccessToken string           `json:"accessToken,omitempty" toml:"access_token"`
	Source      string           `json:"source,omitempty" toml:"source"`
	AllPages    bool             `json:"allPages,omitempty" toml:"all_pages"`
	Match       MatchConfig      `json:"match" toml:"match"`
	Library     LibraryConfig    `json:"library" toml:"library"`
	Downloader  DownloaderConfig `json:"downloader" toml:"downloader"`
	Tagger      TaggerConfig     `json:"tagger" toml:"tagger"`
	Database    DatabaseConfig   `json:"database" toml:"database"`
}

// MatchConfig controls how titles and filenames are compared.
type MatchConfig struct {
	FoldCase      bool `json:"foldCase" toml:"fold_case"`
	StripTitleExt bool `json:"stripTitleExt" toml:"strip_title_ext"`
}

// LibraryConfig controls which files in the destination count as tracks.
type LibraryConfig struct {
	Extensions []string `json:"extensions" toml:"extensions"`
}

// DownloaderConfig selects and configures the media download backend.
type DownloaderConfig struct {
	Backend     string   `json:"backend" toml:"backend"`
	Command     string   `json:"command" toml:"command"`
	AudioFormat string   `json:"audioFormat" toml:"audio_format"`
	ExtraArgs   []string `json:"extraArgs" toml:"extra_args"`
	Interval    Duration `json:"interval" toml:"interval"`
	Timeout     Duration `json:"timeout" toml:"timeout"`
}

// TaggerConfig selects and configures the tagging backend.
type TaggerConfig struct {
	Backend   string   `json:"backend" toml:"backend"`
	Command   string   `json:"command" toml:"command"`
	Fallbacks []string `json:"fallbacks" toml:"fallbacks"`
}

// DatabaseConfig contains run history settings.
type DatabaseConfig struct {
	Enabled bool   `json:"enabled" toml:"enabled"`
	Path    string `json:"path" toml:"path"`
}

// Duration is a [time.Duration] that reads and writes as a string such as "1m30s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidConfig, text)
	}
	*d = Duration(v)
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/youtubeSync.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, ConfigDirName)
}

// DefaultConfigPath returns the config.json path inside [DefaultConfigDir].
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// DefaultDatabasePath returns $XDG_DATA_HOME/ytsync/history.db.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.DataHome, "ytsync", "history.db")
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
//
// The destination falls back to the XDG music directory and the database path to [DefaultDatabasePath].
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	if config.Destination == "" {
		config.Destination = xdg.UserDirs.Music
	}
	if config.Database.Path == "" {
		config.Database.Path = DefaultDatabasePath()
	}
	return &config
}

// LoadConfig reads a configuration file, choosing the decoder by extension (.toml, otherwise JSON).
//
// Keys absent from the file keep their [DefaultConfig] values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// ENOTDIR: a parent of path is a file, so the config cannot exist there
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isTOML(path) {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	} else {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
	}

	config.Destination = ExpandHome(config.Destination)
	config.Database.Path = ExpandHome(config.Database.Path)
	return config, nil
}

// CreateConfigFile writes [DefaultConfig] with placeholder credentials to path, creating its directory.
//
// Returns [ErrConfigDirUnwritable] when the directory cannot be created.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigDirUnwritable, err)
	}

	data, err := EncodeConfig(DefaultConfig(), path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeConfig serialises config in the format implied by path.
func EncodeConfig(config *Config, path string) ([]byte, error) {
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := json.MarshalIndent(config, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Validate reports whether the config can drive a sync run.
func (c *Config) Validate() error {
	if c.PlaylistID == "" || c.PlaylistID == PlaceholderPlaylistID {
		return fmt.Errorf("%w: playlist id is not set", ErrInvalidConfig)
	}
	if c.Destination == "" {
		return fmt.Errorf("%w: destination is not set", ErrInvalidConfig)
	}

	switch c.Source {
	case "", SourceAPI:
		if (c.APIKey == "" || c.APIKey == PlaceholderAPIKey) && c.AccessToken == "" {
			return fmt.Errorf("%w: %w: api key is not set", ErrInvalidConfig, ErrMissingCredentials)
		}
	case SourceInnertube:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}

	if b := c.Downloader.Backend; b != "" && !slices.Contains([]string{DownloaderExec, DownloaderYtdlp}, b) {
		return fmt.Errorf("%w: unknown downloader backend %q", ErrInvalidConfig, b)
	}
	if b := c.Tagger.Backend; b != "" && !slices.Contains([]string{TaggerID3, TaggerExec}, b) {
		return fmt.Errorf("%w: unknown tagger backend %q", ErrInvalidConfig, b)
	}

	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
