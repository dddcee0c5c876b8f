// Package config loads runtime configuration for the authgate CLI.
//
// A plain invocation needs no configuration: the credential lives in
// authen.json in the working directory, passwords hash with SHA-256 and each
// sign-in challenge allows four attempts.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. AUTHGATE_* environment variables.
//  4. Command-line flags -f, -s and -l.
//
// # JSON schema
//
//	{
//	  "credential_file": "authen.json",
//	  "storage": "file",
//	  "sqlite_dsn": "authgate.db",
//	  "max_attempts": 4,
//	  "min_password_length": 4,
//	  "hasher": "sha256",
//	  "hash_salt": "",
//	  "fold_password_case": false,
//	  "animate": true,
//	  "frame_delay": "500ms",
//	  "log_level": "warn"
//	}
package config
