// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Every config type is parsed
// once and cached, so packages can call Load for the struct they own without
// coordinating with each other:
//
//	var gcfg gigya.Config
//	config.MustLoad(&gcfg)
//
//	var rcfg redis.Config
//	config.MustLoad(&rcfg)
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can be
// matched with errors.Is. Tests call Reset between cases that change the
// environment.
package config
