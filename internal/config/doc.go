// Package config handles loading and parsing the peloton configuration.
//
// # Overview
//
// This package resolves where the race API lives and how the catalog
// pages. Configuration is deliberately small: a TOML file plus an
// environment override, nothing else.
//
// # Resolution order
//
//  1. Defaults (http://127.0.0.1:8000, page size 8)
//  2. ~/.config/peloton/config.toml (or the path given to Load)
//  3. PELOTON_API_URL from the environment, with a .env file in the
//     working directory honored first
//
// Later sources win. A missing config file or .env file is not an error.
//
// # File format
//
// Example config.toml:
//
//	api_url = "https://races.example.com"
//	page_size = 8
//
// # Error Handling
//
// Load fails only on an unreadable file, invalid TOML, or a bad
// page_size. Everything else falls back to defaults.
package config
