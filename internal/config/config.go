package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Apps     []App    `yaml:"apps"`
	Keywords Keywords `yaml:"keywords"`
	Sources  Sources  `yaml:"sources"`
	Analysis Analysis `yaml:"analysis"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

// App is one tracked product: the target or a competitor.
type App struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	AppStoreID  string `yaml:"appstore_id"`
	PlayStoreID string `yaml:"playstore_id"`
	IsTarget    bool   `yaml:"is_target"`
}

// Keywords are the search keyword groups used by the blog and video
// collectors.
type Keywords struct {
	Primary     []string `yaml:"primary"`
	Secondary   []string `yaml:"secondary"`
	Competitive []string `yaml:"competitive"`
}

type Sources struct {
	Feeds    []Feed         `yaml:"feeds"`
	AppStore AppStoreConfig `yaml:"appstore"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Naver    NaverConfig    `yaml:"naver"`
	Brunch   BrunchConfig   `yaml:"brunch"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type AppStoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Country string `yaml:"country"`
	Pages   int    `yaml:"pages"`
}

type YouTubeConfig struct {
	Enabled             bool   `yaml:"enabled"`
	APIKeyEnv           string `yaml:"api_key_env"`
	MaxVideosPerSearch  int    `yaml:"max_videos_per_search"`
	MaxCommentsPerVideo int    `yaml:"max_comments_per_video"`
}

type NaverConfig struct {
	Enabled         bool   `yaml:"enabled"`
	ClientIDEnv     string `yaml:"client_id_env"`
	ClientSecretEnv string `yaml:"client_secret_env"`
	Display         int    `yaml:"display"`
}

type BrunchConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxArticles int  `yaml:"max_articles"`
}

type Analysis struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	OllamaURL string `yaml:"ollama_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for reviewpulse.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "reviewpulse")
}

// DataDir returns the XDG data directory for reviewpulse.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "reviewpulse")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/reviewpulse/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'reviewpulse init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			AppStore: AppStoreConfig{
				Enabled: true,
				Country: "kr",
				Pages:   4,
			},
			YouTube: YouTubeConfig{
				APIKeyEnv:           "YOUTUBE_API_KEY",
				MaxVideosPerSearch:  10,
				MaxCommentsPerVideo: 100,
			},
			Naver: NaverConfig{
				ClientIDEnv:     "NAVER_CLIENT_ID",
				ClientSecretEnv: "NAVER_CLIENT_SECRET",
				Display:         100,
			},
			Brunch: BrunchConfig{
				MaxArticles: 50,
			},
		},
		Analysis: Analysis{
			Provider:  "anthropic",
			Model:     "claude-3-haiku-20240307",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			OllamaURL: "http://localhost:11434",
			MaxTokens: 300,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Target returns the app marked is_target, or nil when none is configured.
func (c *Config) Target() *App {
	for i := range c.Apps {
		if c.Apps[i].IsTarget {
			return &c.Apps[i]
		}
	}
	return nil
}

// TargetName returns the display name of the target product.
func (c *Config) TargetName() string {
	if t := c.Target(); t != nil {
		return t.Name
	}
	return ""
}

// CompetitorNames returns the display names of all non-target apps, in
// config order.
func (c *Config) CompetitorNames() []string {
	var names []string
	for _, app := range c.Apps {
		if !app.IsTarget {
			names = append(names, app.Name)
		}
	}
	return names
}

// SearchKeywords returns the keyword groups flattened in priority order.
func (c *Config) SearchKeywords() []string {
	var all []string
	all = append(all, c.Keywords.Primary...)
	all = append(all, c.Keywords.Competitive...)
	all = append(all, c.Keywords.Secondary...)
	return all
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
