package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
	"github.com/dmitrijs2005/walletkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	StorePath           string         `json:"store_path"`
	StoreBackend        string         `json:"store_backend"`
	KeychainService     string         `json:"keychain_service"`
	LogLevel            string         `json:"log_level"`
	LogBackend          string         `json:"log_backend"`
	Biometric           JsonBiometric  `json:"biometric"`
}

type JsonBiometric struct {
	Hardware            bool     `json:"hardware"`
	Enrolled            bool     `json:"enrolled"`
	Modalities          []string `json:"modalities"`
	CancelLabel         string   `json:"cancel_label"`
	AllowDeviceFallback bool     `json:"allow_device_fallback"`
}

func toJson(cfg *Config) JsonConfig {
	return JsonConfig{
		APIBaseURL:          cfg.APIBaseURL,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		StorePath:           cfg.StorePath,
		StoreBackend:        cfg.StoreBackend,
		KeychainService:     cfg.KeychainService,
		LogLevel:            cfg.LogLevel,
		LogBackend:          cfg.LogBackend,
		Biometric: JsonBiometric{
			Hardware:            cfg.BiometricHardware,
			Enrolled:            cfg.BiometricEnrolled,
			Modalities:          cfg.BiometricModalities,
			CancelLabel:         cfg.PromptCancelLabel,
			AllowDeviceFallback: cfg.AllowDeviceFallback,
		},
	}
}

// parseJson overlays cfg with values loaded from the JSON file named by -c
// or -config. Without either flag it does nothing. The file is decoded on
// top of the current values, so absent keys leave them unchanged.
func parseJson(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.StorePath = jc.StorePath
	cfg.StoreBackend = jc.StoreBackend
	cfg.KeychainService = jc.KeychainService
	cfg.LogLevel = jc.LogLevel
	cfg.LogBackend = jc.LogBackend
	cfg.BiometricHardware = jc.Biometric.Hardware
	cfg.BiometricEnrolled = jc.Biometric.Enrolled
	cfg.BiometricModalities = jc.Biometric.Modalities
	cfg.PromptCancelLabel = jc.Biometric.CancelLabel
	cfg.AllowDeviceFallback = jc.Biometric.AllowDeviceFallback
	return nil
}
