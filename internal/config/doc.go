// Package config provides configuration management for lighthub.
//
// Values come from, in order of precedence: LIGHTHUB_* environment
// variables, the config file, and built-in defaults. The config file is
// config.yaml in the working directory or in the config directory
// ($XDG_CONFIG_HOME/lighthub, or LIGHTHUB_CONFIG_DIR):
//
//	listen: ":8080"
//	data_dir: /var/lib/lighthub
//	backup:
//	  dir: ""              # defaults to <data_dir>/backups
//	  write_buffer: 64
//	  restore_buffer: 128
//	  retention: 5
//	  max_upload: 1048576
//
// Nested keys map to environment variables with dots replaced by
// underscores, e.g. LIGHTHUB_BACKUP_RETENTION.
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//
// Load validates the result; [Validate] returns every problem found as a
// [FieldError] wrapping one of the sentinel errors.
package config
