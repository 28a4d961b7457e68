package models

import "time"

// Config holds the settings for a deployment run. Operator identity and the
// access token are deliberately absent: they are collected per run and never
// persisted.
type Config struct {
	Deploy Deploy `yaml:"deploy" mapstructure:"deploy"`
	GitHub GitHub `yaml:"github" mapstructure:"github"`
	Pages  Pages  `yaml:"pages" mapstructure:"pages"`
	Log    Log    `yaml:"log" mapstructure:"log"`
}

// Deploy describes the local checkout and the repository it is published to
type Deploy struct {
	WorkDir     string `yaml:"work_dir" mapstructure:"work_dir"`
	RepoName    string `yaml:"repo_name" mapstructure:"repo_name"`
	Description string `yaml:"description" mapstructure:"description"`
	Remote      string `yaml:"remote" mapstructure:"remote"`
	Branch      string `yaml:"branch" mapstructure:"branch"` // empty means the checkout's current branch
	Private     bool   `yaml:"private" mapstructure:"private"`
}

// GitHub contains hosting provider API settings
type GitHub struct {
	APIURL  string        `yaml:"api_url" mapstructure:"api_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Pages contains the publishing source settings
type Pages struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Log contains logging settings
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "text" or "json"
}
