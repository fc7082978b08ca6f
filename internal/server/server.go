package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/bureauram/ldgateway/internal/config"
	"github.com/bureauram/ldgateway/internal/notify"
	"github.com/bureauram/ldgateway/internal/settings"
	"github.com/bureauram/ldgateway/pkg/platform"
)

// Server carries the shared dependencies of the gateway's HTTP handlers.
type Server struct {
	// Config is the process configuration.
	Config *config.Config

	// DB is the database holding the audit log and the gateway settings.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Platform is the learning platform's course and enrollment surface.
	Platform platform.Gateway

	// Identity is the learning platform's user account store.
	Identity platform.IdentityStore

	// Mail delivers confirmation emails.
	Mail notify.Transport

	// Settings reads the gateway's persisted runtime options.
	Settings *settings.Store
}
