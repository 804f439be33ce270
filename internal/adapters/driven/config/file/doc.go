// Package file provides the TOML-backed configuration store.
// Settings live in ~/.advisor/config.toml with nested tables
// flattened to dot-notation keys.
package file
