// Package config loads runtime configuration for the typing-game client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config or $TYPEGAME_CONFIG.
//     Comments and trailing commas are accepted.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-u string   backend base URL, e.g. https://abcd.supabase.co
//	-k string   anonymous API key sent as the apikey header
//	-i int      change poll interval (seconds)
//	-d string   directory holding the local database
//
// # JSON schema
//
// Durations accept either strings like "1s" or integer nanoseconds:
//
//	{
//	  // project settings
//	  "base_url": "https://abcd.supabase.co",
//	  "anon_key": "eyJhbGciOi...",
//	  "poll_interval": "1s",
//	  "request_timeout": "10s",
//	  "data_dir": "data",
//	  "session_passphrase": "",
//	  "log_format": "text",
//	  "log_level": "info",
//	  "s3_region": "us-east-1",
//	  "s3_access_key": "",
//	  "s3_secret_key": "",
//	}
package config
