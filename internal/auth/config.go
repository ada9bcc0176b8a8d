package auth

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds optional token issuance settings loaded from
// config/auth.yaml. Missing file falls back to defaults; the JWT secret
// itself always comes from the environment. A zero TokenTTL means the
// caller supplies one.
type ProviderConfig struct {
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// LoadProviderConfig reads the auth provider configuration file
func LoadProviderConfig(path string) (*ProviderConfig, error) {
	cfg := &ProviderConfig{
		Issuer:   "ops-portal",
		Audience: "ops-portal-api",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read auth config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse auth config: %w", err)
	}
	return cfg, nil
}
