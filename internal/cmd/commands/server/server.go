package server

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"gorm.io/gorm"

	"github.com/bureauram/ldgateway/internal/api"
	"github.com/bureauram/ldgateway/internal/config"
	"github.com/bureauram/ldgateway/internal/notify"
	"github.com/bureauram/ldgateway/internal/server"
	"github.com/bureauram/ldgateway/internal/settings"
	"github.com/bureauram/ldgateway/pkg/database"
	"github.com/bureauram/ldgateway/pkg/models"
	"github.com/bureauram/ldgateway/pkg/platform/memory"
)

type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the API gateway server"
}

func (c *Command) Help() string {
	return `Usage: ldgateway server -config=config.hcl

  Run the learning platform API gateway. The server listens for
  provisioning requests, records every request in the audit log, and
  generates an API key on first start if none is configured.
`
}

func (c *Command) Run(args []string) int {
	f := flag.NewFlagSet("server", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "config.hcl", "Path to the configuration file")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	}, c.Log)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error connecting to the database: %v", err))
		return 1
	}
	if err := db.AutoMigrate(models.ModelsToAutoMigrate()...); err != nil {
		c.UI.Error(fmt.Sprintf("error migrating the database: %v", err))
		return 1
	}

	store := settings.NewStore(db, cfg.Notifications.DefaultDestination, c.Log)
	key, generated, err := store.EnsureAPIKey()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error ensuring API key: %v", err))
		return 1
	}
	if generated {
		// Shown once; afterwards the key only lives in the settings store.
		c.UI.Info(fmt.Sprintf("Generated API key: %s", key))
	}

	srv := c.buildServer(cfg, db, store)

	mux := http.NewServeMux()
	mux.Handle("/", api.GatewayHandler(srv))
	mux.Handle("/api/v1/log", api.AuditLogHandler(srv))

	c.Log.Info("starting server", "listen_addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		c.UI.Error(fmt.Sprintf("server error: %v", err))
		return 1
	}
	return 0
}

func (c *Command) buildServer(
	cfg *config.Config,
	db *gorm.DB,
	store *settings.Store,
) server.Server {
	courses := make(map[string]string, len(cfg.Courses))
	for _, course := range cfg.Courses {
		courses[course.ID] = course.Title
	}

	return server.Server{
		Config:   cfg,
		DB:       db,
		Logger:   c.Log,
		Platform: memory.NewPlatform(courses),
		Identity: memory.NewIdentity(),
		Mail: notify.NewSMTPTransport(notify.SMTPConfig{
			Host:        cfg.Mail.SMTPHost,
			Port:        cfg.Mail.SMTPPort,
			Username:    cfg.Mail.SMTPUsername,
			Password:    cfg.Mail.SMTPPassword,
			FromAddress: cfg.Mail.FromAddress,
			FromName:    cfg.Mail.FromName,
			UseTLS:      cfg.Mail.UseTLS,
		}),
		Settings: store,
	}
}
