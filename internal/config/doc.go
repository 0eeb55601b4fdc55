// Package config provides configuration structures and utilities for the
// dose extractor. It defines the main options for extraction, output
// format selection, and history persistence, plus the .ctdose file loader.
package config
