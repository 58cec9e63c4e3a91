package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrConfigMissing marks a required credential or setting that is absent
// or still carries a placeholder value.
var ErrConfigMissing = errors.New("configuration missing")

const (
	DefaultModel      = "gpt-4o"
	DefaultImageModel = "dall-e-3"
	DefaultPostsDir   = "_posts"
)

// Config is assembled once at process start and handed to every workflow
// entry point.
type Config struct {
	OpenAI     OpenAIConfig `json:"openai"`
	GitHub     GitHubConfig `json:"github"`
	ServerAddr string       `json:"server_addr,omitempty"`
}

// OpenAIConfig selects the generation collaborator's credential and models.
type OpenAIConfig struct {
	APIKey     string `json:"api_key"`
	Model      string `json:"model,omitempty"`
	ImageModel string `json:"image_model,omitempty"`
}

// GitHubConfig identifies the target repository and the bot's commit identity.
type GitHubConfig struct {
	Token     string `json:"token"`
	RepoOwner string `json:"repo_owner"`
	RepoName  string `json:"repo_name"`
	Email     string `json:"email"`
	PostsDir  string `json:"posts_dir,omitempty"`
}

// RepoURL is the HTTPS clone URL for the configured repository.
func (g GitHubConfig) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", g.RepoOwner, g.RepoName)
}

// Load reads an optional JSON config file, then applies environment
// overrides. A .env file in the working directory is honored when present.
func Load(path string) (Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// fall through to env-only configuration
		default:
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultModel
	}
	if cfg.OpenAI.ImageModel == "" {
		cfg.OpenAI.ImageModel = DefaultImageModel
	}
	if cfg.GitHub.PostsDir == "" {
		cfg.GitHub.PostsDir = DefaultPostsDir
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "OPENAI_MODEL")
	set(&cfg.OpenAI.ImageModel, "OPENAI_IMAGE_MODEL")
	set(&cfg.GitHub.Token, "GITHUB_TOKEN")
	set(&cfg.GitHub.RepoOwner, "GITHUB_REPO_OWNER")
	set(&cfg.GitHub.RepoName, "GITHUB_REPO_NAME")
	set(&cfg.GitHub.Email, "GITHUB_EMAIL")
	set(&cfg.GitHub.PostsDir, "GITHUB_POSTS_DIR")
	set(&cfg.ServerAddr, "SERVER_ADDR")
}

// Validate fails eagerly, before any network work, when a required value
// is empty or still a "<<placeholder>>" from a config template.
func (c Config) Validate() error {
	required := []struct{ name, value string }{
		{"openai api key", c.OpenAI.APIKey},
		{"github token", c.GitHub.Token},
		{"github repo owner", c.GitHub.RepoOwner},
		{"github repo name", c.GitHub.RepoName},
		{"github email", c.GitHub.Email},
	}
	for _, r := range required {
		if r.value == "" || strings.HasPrefix(r.value, "<<") {
			return fmt.Errorf("%w: %s", ErrConfigMissing, r.name)
		}
	}
	return nil
}
