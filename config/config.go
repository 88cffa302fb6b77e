package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Content store backends.
const (
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
	StoreGit       = "git"
)

// Config holds persistent settings stored at <profileDir>/blogterm.json.
type Config struct {
	// Theme names a built-in theme. Empty follows the terminal background.
	Theme string `json:"theme,omitempty"`

	Store        string `json:"store,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	FirestoreURL string `json:"firestore_url,omitempty"`
	AuthURL      string `json:"auth_url,omitempty"`
	Collection   string `json:"collection,omitempty"`
	DBPath       string `json:"db_path,omitempty"`
	GitURL       string `json:"git_url,omitempty"`
	GitDir       string `json:"git_dir,omitempty"`
	GitSubdir    string `json:"git_subdir,omitempty"`

	BlogTitle      string `json:"blog_title,omitempty"`
	AboutName      string `json:"about_name,omitempty"`
	AboutBio       string `json:"about_bio,omitempty"`
	GitHub         string `json:"github,omitempty"`
	GitHubURL      string `json:"github_url,omitempty"`
	CommandTimeout string `json:"command_timeout,omitempty"`
}

const (
	filename = "blogterm.json"

	defaultTimeout = 15 * time.Second
)

// Load reads <profileDir>/blogterm.json and returns the parsed Config.
// If the file is absent or unreadable, a default Config is returned.
func Load(profileDir string) Config {
	cfg := defaults(profileDir)
	data, err := os.ReadFile(Path(profileDir))
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults(profileDir)
	}
	return cfg
}

// Path returns the configuration file of profileDir.
func Path(profileDir string) string {
	return filepath.Join(profileDir, filename)
}

// Save writes cfg to <profileDir>/blogterm.json, creating the directory if needed.
func Save(profileDir string, cfg Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(profileDir), data, 0o644)
}

// envKeys maps environment variables to the fields they override.
var envKeys = []struct {
	name  string
	field func(*Config) *string
}{
	{"BLOGTERM_STORE", func(c *Config) *string { return &c.Store }},
	{"BLOGTERM_PROJECT_ID", func(c *Config) *string { return &c.ProjectID }},
	{"BLOGTERM_API_KEY", func(c *Config) *string { return &c.APIKey }},
	{"BLOGTERM_FIRESTORE_URL", func(c *Config) *string { return &c.FirestoreURL }},
	{"BLOGTERM_AUTH_URL", func(c *Config) *string { return &c.AuthURL }},
	{"BLOGTERM_DB", func(c *Config) *string { return &c.DBPath }},
	{"BLOGTERM_GIT_URL", func(c *Config) *string { return &c.GitURL }},
	{"BLOGTERM_GIT_DIR", func(c *Config) *string { return &c.GitDir }},
}

// WithEnv returns cfg with non-empty environment variables applied.
func (c Config) WithEnv(getenv func(string) string) Config {
	for _, k := range envKeys {
		if v := getenv(k.name); v != "" {
			*k.field(&c) = v
		}
	}
	return c
}

// Timeout parses CommandTimeout. An empty or invalid value yields the
// default; "0" disables the timeout.
func (c Config) Timeout() time.Duration {
	if c.CommandTimeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil || d < 0 {
		return defaultTimeout
	}
	return d
}

func defaults(profileDir string) Config {
	return Config{
		Store:          StoreFirestore,
		Collection:     "posts",
		DBPath:         filepath.Join(profileDir, "posts.db"),
		CommandTimeout: defaultTimeout.String(),
	}
}
