// Package config loads the session configuration.
//
// Two sources feed the session, mirroring how they change:
//
//   - the config document, a TOML file mapping logical app names to
//     executables plus appearance paths, read once at startup and
//     immutable for the life of the session;
//   - environment variables for deployment knobs (listen address, log
//     level, rate limits), processed with envconfig.
//
// A missing document file falls back to a copy embedded at build time.
// A document that fails to parse or validate is fatal: the session must
// not start half-configured.
package config
