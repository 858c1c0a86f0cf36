// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing, and caches every parsed
// configuration type for the lifetime of the process:
//
//	if err := config.LoadEnv("./deploy/.env"); err != nil {
//	    log.Fatal(err)
//	}
//
//	var cfg alerts.Config
//	config.MustLoad(&cfg)
//
// Use ResetCache in tests after changing the environment.
//
// Errors can be compared with errors.Is: ErrParsingConfig, ErrLoadingEnvFile
// and ErrNilPointer.
package config
