package config

import "testing"

func validConfig() *Config {
	return &Config{
		Port:          "8080",
		JWTSecret:     "secret",
		DBName:        "ledger",
		ReqTimeoutSec: 30,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty db name", func(c *Config) { c.DBName = "" }, true},
		{"zero timeout", func(c *Config) { c.ReqTimeoutSec = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ALLOW_ORIGINS", "DEFAULT_CURRENCY", "DB_HOST", "DB_SSLMODE", "REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AllowOrigins != "*" {
		t.Errorf("AllowOrigins = %q, want *", cfg.AllowOrigins)
	}
	if cfg.DefaultCurrency != "₹" {
		t.Errorf("DefaultCurrency = %q, want ₹", cfg.DefaultCurrency)
	}
	if cfg.ReqTimeoutSec != 30 {
		t.Errorf("ReqTimeoutSec = %d, want 30", cfg.ReqTimeoutSec)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.ReqTimeoutSec != 5 {
		t.Errorf("ReqTimeoutSec = %d, want 5", cfg.ReqTimeoutSec)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q, want s3cret", cfg.JWTSecret)
	}
}
