// Package config holds storydl's TOML configuration.
//
// Load resolves the file (--config, ~/.config/storydl/config.toml, then
// ./storydl.toml), layers STORYDL_* environment fallbacks over the defaults,
// expands paths and validates the result. config init writes the embedded
// sample_config.toml.
package config
