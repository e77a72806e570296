package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/docvault.db"
	}
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "./uploads"
	}
	if cfg.Worker.IntervalSeconds == 0 {
		cfg.Worker.IntervalSeconds = 10
	}
	if cfg.Extraction.TesseractPath == "" {
		cfg.Extraction.TesseractPath = "tesseract"
	}
	if cfg.Extraction.TesseractLang == "" {
		cfg.Extraction.TesseractLang = "eng"
	}
	if cfg.Extraction.TimeoutSeconds == 0 {
		cfg.Extraction.TimeoutSeconds = 120
	}
}
