package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"pagesdrop/internal/common"
	pderrors "pagesdrop/pkg/errors"
	"pagesdrop/pkg/models"
)

const (
	// EnvPrefix prefixes every environment override, e.g. PAGESDROP_DEPLOY_WORK_DIR
	EnvPrefix = "PAGESDROP"
	// FileName is the config file name without extension
	FileName = "config"
	// FileType is the config file format
	FileType = "yaml"
	// DirName is the per-user config directory under $HOME
	DirName = ".pagesdrop"
)

// Default returns the built-in settings
func Default() *models.Config {
	return &models.Config{
		Deploy: models.Deploy{
			WorkDir:     ".",
			RepoName:    "spacerift",
			Description: "SpaceRift 3D Space RPG game for Telegram Mini App",
			Remote:      "origin",
		},
		GitHub: models.GitHub{
			APIURL:  "https://api.github.com/",
			Timeout: 30 * time.Second,
		},
		Pages: models.Pages{
			Path: "/",
		},
		Log: models.Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// SetDefaults registers every key with its built-in value. Keys unknown to
// viper are not picked up from the environment.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("deploy.work_dir", d.Deploy.WorkDir)
	v.SetDefault("deploy.repo_name", d.Deploy.RepoName)
	v.SetDefault("deploy.description", d.Deploy.Description)
	v.SetDefault("deploy.remote", d.Deploy.Remote)
	v.SetDefault("deploy.branch", d.Deploy.Branch)
	v.SetDefault("deploy.private", d.Deploy.Private)
	v.SetDefault("github.api_url", d.GitHub.APIURL)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("pages.path", d.Pages.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// GetConfigPath returns the per-user config directory
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// GetConfigFile returns the per-user config file
func GetConfigFile() string {
	return filepath.Join(GetConfigPath(), FileName+"."+FileType)
}

// Init prepares v to read settings from cfgFile, or from config.yaml in the
// working directory or the per-user config directory when cfgFile is empty.
// A missing config file is not an error unless cfgFile names it.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		cleaned, err := common.CleanPath(cfgFile)
		if err != nil {
			return pderrors.Wrap(err, pderrors.ErrCodeConfigInvalid, "Invalid config file path").
				WithContext("path", cfgFile)
		}
		if _, err := os.Stat(cleaned); err != nil {
			return pderrors.Wrap(err, pderrors.ErrCodeConfigNotFound, "Config file not found").
				WithContext("path", cleaned).
				WithSuggestions("Run 'pagesdrop config init' to create one")
		}
		v.SetConfigFile(cleaned)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType(FileType)
		v.AddConfigPath(".")
		v.AddConfigPath(GetConfigPath())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return pderrors.Wrap(err, pderrors.ErrCodeConfigInvalid, "Failed to read config file").
			WithContext("path", v.ConfigFileUsed())
	}
	return nil
}

// Load decodes and validates the settings held by v
func Load(v *viper.Viper) (*models.Config, error) {
	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, pderrors.Wrap(err, pderrors.ErrCodeConfigInvalid, "Failed to decode configuration")
	}
	cfg.Deploy.RepoName = strings.TrimSpace(cfg.Deploy.RepoName)
	cfg.Deploy.Remote = strings.TrimSpace(cfg.Deploy.Remote)
	cfg.Deploy.Branch = strings.TrimSpace(cfg.Deploy.Branch)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg for values a deployment cannot run with
func Validate(cfg *models.Config) error {
	if cfg.Deploy.WorkDir == "" {
		return pderrors.ConfigError("work directory cannot be empty", "deploy.work_dir")
	}
	if cfg.Deploy.RepoName == "" {
		return pderrors.ConfigError("repository name cannot be empty", "deploy.repo_name")
	}
	if strings.ContainsAny(cfg.Deploy.RepoName, "/ ") {
		return pderrors.ConfigError(
			fmt.Sprintf("repository name %q must not contain slashes or spaces", cfg.Deploy.RepoName),
			"deploy.repo_name")
	}
	if cfg.Deploy.Remote == "" {
		return pderrors.ConfigError("remote name cannot be empty", "deploy.remote")
	}
	if strings.HasPrefix(cfg.Deploy.Remote, "-") || strings.HasPrefix(cfg.Deploy.Branch, "-") {
		return pderrors.ConfigError("remote and branch names must not start with '-'", "deploy")
	}
	if cfg.GitHub.Timeout <= 0 {
		return pderrors.ConfigError("timeout must be positive", "github.timeout")
	}
	u, err := url.Parse(cfg.GitHub.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return pderrors.ConfigError(fmt.Sprintf("invalid API URL %q", cfg.GitHub.APIURL), "github.api_url")
	}
	if !strings.HasPrefix(cfg.Pages.Path, "/") {
		return pderrors.ConfigError(fmt.Sprintf("pages path %q must start with '/'", cfg.Pages.Path), "pages.path")
	}
	return nil
}

// Render returns cfg as YAML
func Render(cfg *models.Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the built-in settings to path. An existing file is
// left alone unless force is set.
func WriteDefault(path string, force bool) (string, error) {
	if path == "" {
		path = GetConfigFile()
	}
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return "", pderrors.Wrap(err, pderrors.ErrCodeConfigInvalid, "Invalid config file path").
			WithContext("path", path)
	}

	if _, err := os.Stat(cleaned); err == nil && !force {
		return "", pderrors.New(pderrors.ErrCodeConfigInvalid, "Config file already exists").
			WithContext("path", cleaned).
			WithSuggestions("Use --force to overwrite it")
	}

	data, err := Render(Default())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), common.DirPermissionSecure); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cleaned, data, common.FilePermissionSecure); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cleaned, nil
}
