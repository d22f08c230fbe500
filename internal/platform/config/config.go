package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"LMS-backend/internal/library"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type StateConfig struct {
	Path      string `yaml:"path"`
	BackupDir string `yaml:"backup_dir"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type PolicyConfig struct {
	MaxBooksPerMember int `yaml:"max_books_per_member"`
	DefaultLoanDays   int `yaml:"default_loan_days"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

type Config struct {
	Version     string       `yaml:"version"`
	Mode        string       `yaml:"mode"`
	Server      ServerConfig `yaml:"server"`
	Certificate Certs        `yaml:"certificate"`
	State       StateConfig  `yaml:"state"`
	Auth        AuthConfig   `yaml:"auth"`
	Policy      PolicyConfig `yaml:"policy"`
	CORS        CORSConfig   `yaml:"cors"`
}

// Default は設定ファイルなしでも動く素の設定（CLI・テスト用）。
func Default() *Config {
	return &Config{
		Mode:   "dev",
		Server: ServerConfig{Addr: ":8080"},
		State:  StateConfig{Path: "library_db.json", BackupDir: "backups"},
		Auth:   AuthConfig{JWTSecret: "dev-secret-change-me", TokenTTLHours: 24},
		Policy: PolicyConfig{
			MaxBooksPerMember: library.DefaultMaxBooksPerMember,
			DefaultLoanDays:   library.DefaultLoanDays,
		},
	}
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults はゼロ値のままの項目をデフォルトで埋める。
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.State.Path == "" {
		c.State.Path = "library_db.json"
	}
	if c.State.BackupDir == "" {
		c.State.BackupDir = "backups"
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "dev-secret-change-me"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Policy.MaxBooksPerMember <= 0 {
		c.Policy.MaxBooksPerMember = library.DefaultMaxBooksPerMember
	}
	if c.Policy.DefaultLoanDays <= 0 {
		c.Policy.DefaultLoanDays = library.DefaultLoanDays
	}
}

// TLSEnabled は証明書が両方指定されている時だけtrue。
func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}
