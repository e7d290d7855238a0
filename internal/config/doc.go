// Package config resolves pipeline settings from CLI flags, environment
// variables, an optional .env file, and defaults, in that priority
// order.
package config
