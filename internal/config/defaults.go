package config

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Classifiers: map[string]ClassifierCfg{
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 8.0,
				Enabled:   true,
			},
			"mock": {
				Type:    "mock",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			Classifier: "openai",
			MaxWorkers: 4,
		},
		Filter: FilterCfg{
			ProfanityLevel: 2,
			SexualLevel:    2,
			ViolenceLevel:  3,
			Words:          map[string]bool{},
		},
	}
}
