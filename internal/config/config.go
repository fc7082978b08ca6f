// Package config loads the gateway's HCL configuration file. The file covers
// process-level settings (listen address, database, SMTP transport); runtime
// gateway options such as the API key live in the settings store and are not
// configured here.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level gateway configuration.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// Database configures the persistence layer for the audit log and the
	// gateway settings.
	Database *Database `hcl:"database,block"`

	// Mail configures the SMTP transport for confirmation emails.
	Mail *Mail `hcl:"mail,block"`

	// Notifications configures notification defaults.
	Notifications *Notifications `hcl:"notifications,block"`

	// Courses seeds the in-memory learning platform in local mode. Ignored
	// when a real platform provider is wired in.
	Courses []Course `hcl:"course,block"`
}

// Database configures the database connection.
type Database struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `hcl:"driver,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`

	// PostgreSQL settings.
	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`
}

// Mail configures the SMTP transport.
type Mail struct {
	SMTPHost     string `hcl:"smtp_host,optional"`
	SMTPPort     string `hcl:"smtp_port,optional"`
	SMTPUsername string `hcl:"smtp_username,optional"`
	SMTPPassword string `hcl:"smtp_password,optional"`
	FromAddress  string `hcl:"from_address,optional"`
	FromName     string `hcl:"from_name,optional"`
	UseTLS       bool   `hcl:"use_tls,optional"`
}

// Notifications configures notification defaults.
type Notifications struct {
	// DefaultDestination receives confirmation emails when no destination
	// addresses have been configured in the settings store.
	DefaultDestination string `hcl:"default_destination,optional"`
}

// Course seeds one course into the local-mode platform.
type Course struct {
	ID    string `hcl:"id,label"`
	Title string `hcl:"title"`
}

// NewConfig parses the HCL configuration file at path and applies defaults.
func NewConfig(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("error decoding configuration file: %w", err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}
	if cfg.Database == nil {
		cfg.Database = &Database{}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "ldgateway.db"
	}
	if cfg.Mail == nil {
		cfg.Mail = &Mail{}
	}
	if cfg.Notifications == nil {
		cfg.Notifications = &Notifications{}
	}

	return &cfg, nil
}
