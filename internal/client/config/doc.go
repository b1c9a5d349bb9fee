// Package config loads runtime configuration for the wallet CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then WALLET_* environment
//     variables (see loadEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-i int      online status check interval (seconds)
//	-d string   path of the local secure store database
//	-s string   secure store backend: sqlite, keychain or memory
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Keys missing from the file keep their previous value:
//
//	{
//	  "api_base_url": "https://wallet.example.com",
//	  "online_check_interval": "3s",
//	  "request_timeout": "5s",
//	  "store_path": "/home/me/.config/walletkeeper/store.db",
//	  "store_backend": "sqlite",
//	  "log_level": "debug",
//	  "biometric": {"hardware": true, "enrolled": true, "modalities": ["face"]}
//	}
//
// The store passphrase is read from WALLET_STORE_PASSPHRASE only; it is
// never taken from the JSON file or the command line.
package config
