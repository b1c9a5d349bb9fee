package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables understood by loadEnv.
const (
	EnvAPIBaseURL          = "WALLET_API_URL"
	EnvOnlineCheckInterval = "WALLET_ONLINE_CHECK_INTERVAL"
	EnvRequestTimeout      = "WALLET_REQUEST_TIMEOUT"
	EnvStorePath           = "WALLET_STORE_PATH"
	EnvStoreBackend        = "WALLET_STORE_BACKEND"
	EnvStorePassphrase     = "WALLET_STORE_PASSPHRASE"
	EnvKeychainService     = "WALLET_KEYCHAIN_SERVICE"
	EnvLogLevel            = "WALLET_LOG_LEVEL"
	EnvLogBackend          = "WALLET_LOG_BACKEND"
	EnvBiometricHardware   = "WALLET_BIOMETRIC_HARDWARE"
	EnvBiometricEnrolled   = "WALLET_BIOMETRIC_ENROLLED"
	EnvBiometricModalities = "WALLET_BIOMETRIC_MODALITIES"
	EnvPromptCancelLabel   = "WALLET_PROMPT_CANCEL_LABEL"
	EnvAllowDeviceFallback = "WALLET_ALLOW_DEVICE_FALLBACK"
)

type lookupFunc func(key string) (string, bool)

// loadEnv overlays cfg with the variables that are set. Empty values are
// ignored.
func loadEnv(cfg *Config, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strVars := map[string]*string{
		EnvAPIBaseURL:        &cfg.APIBaseURL,
		EnvStorePath:         &cfg.StorePath,
		EnvStoreBackend:      &cfg.StoreBackend,
		EnvKeychainService:   &cfg.KeychainService,
		EnvLogLevel:          &cfg.LogLevel,
		EnvLogBackend:        &cfg.LogBackend,
		EnvPromptCancelLabel: &cfg.PromptCancelLabel,
	}
	for key, dst := range strVars {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	// The passphrase is taken verbatim; surrounding spaces are significant.
	if v, ok := lookup(EnvStorePassphrase); ok && v != "" {
		cfg.StorePassphrase = v
	}

	durVars := map[string]*time.Duration{
		EnvOnlineCheckInterval: &cfg.OnlineCheckInterval,
		EnvRequestTimeout:      &cfg.RequestTimeout,
	}
	for key, dst := range durVars {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	boolVars := map[string]*bool{
		EnvBiometricHardware:   &cfg.BiometricHardware,
		EnvBiometricEnrolled:   &cfg.BiometricEnrolled,
		EnvAllowDeviceFallback: &cfg.AllowDeviceFallback,
	}
	for key, dst := range boolVars {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvBiometricModalities); ok {
		cfg.BiometricModalities = splitList(v)
	}
	return nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
