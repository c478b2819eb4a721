package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Gateway is read from a YAML file; JWT_SECRET and HTTP_ADDR come from
// the environment and win over the file.
type Gateway struct {
	Common       `yaml:"-"`
	JWTSecret    []byte            `yaml:"-"`
	PublicRoutes []string          `yaml:"public_routes"`
	Routes       map[string]string `yaml:"routes"`
	RateLimit    RateLimit         `yaml:"rate_limit"`
}

func LoadGateway() (*Gateway, error) {
	common, err := loadCommon("gateway", ":8080")
	if err != nil {
		return nil, err
	}
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	path := getEnv("GATEWAY_CONFIG", "gateway.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gateway config: %w", err)
	}
	cfg, err := ParseGateway(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Common = common
	cfg.JWTSecret = secret
	return cfg, nil
}

func ParseGateway(raw []byte) (*Gateway, error) {
	var cfg Gateway
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse gateway config: %w", err)
	}
	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("gateway config has no routes")
	}
	if cfg.RateLimit.RPS < 0 || cfg.RateLimit.Burst < 0 {
		return nil, fmt.Errorf("rate_limit values must not be negative")
	}
	return &cfg, nil
}
