package config

// Config holds bookwash configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Classifiers map[string]ClassifierCfg `mapstructure:"classifiers" yaml:"classifiers"`
	Defaults    DefaultsCfg              `mapstructure:"defaults" yaml:"defaults"`
	Filter      FilterCfg                `mapstructure:"filter" yaml:"filter"`
}

// ClassifierCfg configures a paragraph classifier backend.
type ClassifierCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "openai", "mock"
	Model     string  `mapstructure:"model" yaml:"model"`           // Model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Classifier string `mapstructure:"classifier" yaml:"classifier"` // Default classifier name
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers"`
}

// FilterCfg holds the content-filtering request parameters.
// Levels are 1-4; see classify.RatingLabel for the display mapping.
type FilterCfg struct {
	ProfanityLevel int `mapstructure:"profanity_level" yaml:"profanity_level"`
	SexualLevel    int `mapstructure:"sexual_level" yaml:"sexual_level"`
	ViolenceLevel  int `mapstructure:"violence_level" yaml:"violence_level"`

	// Words overrides the default per-term filter selection.
	// Keys are profanity terms, values select whether the term is filtered.
	Words map[string]bool `mapstructure:"words" yaml:"words"`
}

// GetClassifier returns a classifier config by name.
func (c *Config) GetClassifier(name string) (ClassifierCfg, bool) {
	cfg, ok := c.Classifiers[name]
	return cfg, ok
}

// EnabledClassifiers returns all enabled classifier configs.
func (c *Config) EnabledClassifiers() map[string]ClassifierCfg {
	result := make(map[string]ClassifierCfg)
	for name, cfg := range c.Classifiers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
