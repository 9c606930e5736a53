// Package config loads project-level invocation defaults.
//
// It uses Viper to read an invokit.yml file and environment variables,
// with godotenv picking up a .env file when one is present. The loaded
// Defaults convert into invocation options, so a project can pin its
// shell, working directory, and failure behavior once.
//
// # Usage
//
//	defaults, err := config.LoadDefaults()
//	runner := invoke.NewRunner(*defaults.Options())
//
// Environment variables override file values (e.g. INVOKIT_SHELL=true).
package config
