package config

// File represents the structure of the .ctdose configuration file.
// It carries the settings that are stable across runs, so the command line
// only needs per-run inputs.
type File struct {
	// Concurrency overrides the default number of concurrent documents.
	Concurrency int `yaml:"concurrency,omitempty"`

	// MaxDepth overrides the report tree traversal ceiling.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Strict enables strict mode: documents without a dose payload are
	// discarded instead of producing demographics-only records.
	Strict bool `yaml:"strict,omitempty"`

	// Output is the default report output path, used when --output is not
	// given on the command line.
	Output string `yaml:"output,omitempty"`

	// History controls journaling to the extraction history database.
	History HistoryConfig `yaml:"history,omitempty"`
}

// HistoryConfig configures the extraction history database.
type HistoryConfig struct {
	// Enabled turns journaling on.
	Enabled bool `yaml:"enabled,omitempty"`

	// Dir overrides the database directory. Empty means the XDG data
	// directory.
	Dir string `yaml:"dir,omitempty"`
}

// Apply copies the file settings onto a Config, keeping any value the
// command line already set. Flag values win over file values, file values
// win over defaults.
func (cf *File) Apply(c *Config, flagsSet func(name string) bool) {
	if cf.Concurrency > 0 && !flagsSet("concurrency") {
		c.Concurrency = cf.Concurrency
	}
	if cf.MaxDepth > 0 && !flagsSet("max-depth") {
		c.MaxDepth = cf.MaxDepth
	}
	if cf.Strict && !flagsSet("strict") {
		c.Strict = true
	}
	if cf.Output != "" && !flagsSet("output") {
		c.OutputFile = cf.Output
	}
	if cf.History.Enabled {
		c.SaveToDB = true
		if cf.History.Dir != "" {
			c.DBDir = cf.History.Dir
		}
	}
}
