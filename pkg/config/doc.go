// Package config loads the optional ktconf project configuration.
//
// A project configuration file (`.ktconf.yaml` or `ktconf.yaml`) is found by
// walking up from the target directory. It provides defaults for the
// disabled rules and the experimental-rules toggle, which command line flags
// and environment variables can override.
package config
