// Package config loads and validates application configuration from
// environment variables and optional config files, keeping secrets such as
// the token signing key and the database connection string out of the source.
package config
