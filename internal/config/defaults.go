package config

// DefaultBaseURL is the Gemini API endpoint used when ai.base_url is unset.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-1.5-flash"
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = DefaultBaseURL
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 120
	}
	if cfg.Limits.MaxTextLength == 0 {
		cfg.Limits.MaxTextLength = 1000000
	}
	if cfg.Limits.MaxUploadBytes == 0 {
		cfg.Limits.MaxUploadBytes = 25 << 20
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.TempFileDir == "" {
		cfg.Storage.TempFileDir = "temp_uploads"
	}
}
