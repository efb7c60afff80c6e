// Package config loads the mrscope configuration file.
//
// Configuration lives in a single YAML document (config.yml) with two
// sections: "paths", mapping logical names to the filesystem locations the
// pipeline works in (workspace directories, log file, summary artifact,
// collaborator entry points), and "llm", holding the settings for the
// built-in reviewer commands (endpoint URL, model, token and temperature
// limits, response cache, redaction).
//
// [Load] reads the file once through viper, applies defaults, validates the
// result, and returns an immutable [Config] value that is passed by value to
// every component for the duration of the run. [Init] writes a default
// config.yml for first-time setup.
package config
