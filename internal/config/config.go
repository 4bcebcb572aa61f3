// Copyright (c) 2025 Justin Cranford

// Package config loads the tunable policy knobs for the authentication
// and verification services via spf13/viper: freshness window, receive-side
// leniency flags, fetch timeout, and trust/CRL directory locations.
package config

import (
	"time"

	"github.com/spf13/viper"

	"stirshaken/internal/apperr"
)

// Config holds every caller-tunable policy value this core consults.
// Zero-value Config is NOT safe to use directly; call Defaults or Load.
type Config struct {
	// FreshnessWindow bounds how far a PASSporT's iat may drift from now.
	FreshnessWindow time.Duration
	// AllowMissingPpt accepts a PASSporT/Identity header with no ppt claim.
	AllowMissingPpt bool
	// AllowDestTNScalar accepts a dest.tn claim encoded as a scalar string.
	AllowDestTNScalar bool
	// FetchTimeout bounds the certificate-fetch capability's deadline.
	FetchTimeout time.Duration
	// TrustDir is the directory of trusted CA certificates.
	TrustDir string
	// CRLDir is the optional directory of issuer CRLs.
	CRLDir string
	// RequireCRL rejects a cert whose issuer has no CRL in CRLDir.
	RequireCRL bool
}

// Defaults returns the strict SHAKEN-profile configuration: 60s freshness
// window, no receive-side leniency, 10s fetch timeout, CRLs required when
// CRLDir is set.
func Defaults() Config {
	return Config{
		FreshnessWindow:   60 * time.Second,
		AllowMissingPpt:   false,
		AllowDestTNScalar: false,
		FetchTimeout:      10 * time.Second,
		RequireCRL:        true,
	}
}

// Load reads configuration from path (any format viper supports: YAML,
// JSON, TOML) layered over Defaults, plus STIRSHAKEN_-prefixed environment
// variables. An empty path reads only environment and defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("STIRSHAKEN")
	v.AutomaticEnv()

	v.SetDefault("freshness_window", cfg.FreshnessWindow)
	v.SetDefault("allow_missing_ppt", cfg.AllowMissingPpt)
	v.SetDefault("allow_dest_tn_scalar", cfg.AllowDestTNScalar)
	v.SetDefault("fetch_timeout", cfg.FetchTimeout)
	v.SetDefault("trust_dir", cfg.TrustDir)
	v.SetDefault("crl_dir", cfg.CRLDir)
	v.SetDefault("require_crl", cfg.RequireCRL)

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, apperr.New(apperr.KindGeneral, "read config file "+path, err)
		}
	}

	cfg.FreshnessWindow = v.GetDuration("freshness_window")
	cfg.AllowMissingPpt = v.GetBool("allow_missing_ppt")
	cfg.AllowDestTNScalar = v.GetBool("allow_dest_tn_scalar")
	cfg.FetchTimeout = v.GetDuration("fetch_timeout")
	cfg.TrustDir = v.GetString("trust_dir")
	cfg.CRLDir = v.GetString("crl_dir")
	cfg.RequireCRL = v.GetBool("require_crl")

	return cfg, nil
}
