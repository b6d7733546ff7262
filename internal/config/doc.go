// Package config defines the application's configuration structure and
// handles loading settings from files and environment variables.
package config
