// Package html provides a Normaliser implementation for HTML pages.
// It extracts readable text, preferring the page's main content region,
// stripping tags, scripts, and styles, and decoding entities.
package html
