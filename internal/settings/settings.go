// Package settings provides the typed view over the gateway's persisted
// runtime options: the API key, the confirmation-email toggles, and the
// destination address list.
package settings

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/bureauram/ldgateway/pkg/models"
)

// Setting names in the gateway_settings table.
const (
	SettingAPIKey                = "api_key"
	SettingSendConfirmationEmail = "send_confirmation_email"
	SettingUpdateUserData        = "update_user_data"
	SettingIncludePassword       = "email_include_password"
	SettingDestinationEmail      = "destination_email"
)

// Settings is the resolved gateway configuration for one request.
type Settings struct {
	// APIKey is the shared secret presented by the calling automation
	// system.
	APIKey string

	// SendConfirmationEmail gates confirmation emails for new users and
	// newly granted courses.
	SendConfirmationEmail bool

	// UpdateUserData gates the set-once name registration for new users.
	UpdateUserData bool

	// IncludePasswordInEmail includes the supplied password in new-user
	// confirmation emails.
	IncludePasswordInEmail bool

	// DestinationEmail is the semicolon-separated confirmation recipient
	// list as stored; parse it with notify.ParseRecipientList.
	DestinationEmail string
}

// Store reads and writes gateway settings.
type Store struct {
	db  *gorm.DB
	log hclog.Logger

	// defaultDestination is used when no destination addresses have been
	// configured.
	defaultDestination string
}

// NewStore returns a settings store over the given database.
func NewStore(db *gorm.DB, defaultDestination string, log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Store{
		db:                 db,
		log:                log,
		defaultDestination: defaultDestination,
	}
}

// Load reads the current settings, applying defaults for unset options:
// name registration on, confirmation emails off, passwords excluded.
func (s *Store) Load() (*Settings, error) {
	get := func(name string) (string, bool, error) {
		var row models.GatewaySetting
		found, err := row.Get(s.db, name)
		if err != nil {
			return "", false, err
		}
		return row.Value, found, nil
	}

	apiKey, _, err := get(SettingAPIKey)
	if err != nil {
		return nil, fmt.Errorf("error loading api key: %w", err)
	}

	sendEmail, found, err := get(SettingSendConfirmationEmail)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	sendConfirmation := found && truthy(sendEmail)

	updateData, found, err := get(SettingUpdateUserData)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	updateUserData := !found || truthy(updateData)

	includePass, found, err := get(SettingIncludePassword)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	includePassword := found && truthy(includePass)

	destination, found, err := get(SettingDestinationEmail)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	if !found || destination == "" {
		destination = s.defaultDestination
	}

	return &Settings{
		APIKey:                 apiKey,
		SendConfirmationEmail:  sendConfirmation,
		UpdateUserData:         updateUserData,
		IncludePasswordInEmail: includePassword,
		DestinationEmail:       destination,
	}, nil
}

// Set writes one setting value.
func (s *Store) Set(name, value string) error {
	row := models.GatewaySetting{Name: name, Value: value}
	if err := row.Upsert(s.db); err != nil {
		return err
	}
	return nil
}

// EnsureAPIKey makes sure an API key exists before the gateway accepts
// traffic, generating and persisting one exactly once. The insert-if-absent
// acts as a compare-and-set: when two processes race on first startup, both
// end up reading the single persisted key. It returns the key and whether
// this call generated it.
func (s *Store) EnsureAPIKey() (string, bool, error) {
	var row models.GatewaySetting
	found, err := row.Get(s.db, SettingAPIKey)
	if err != nil {
		return "", false, fmt.Errorf("error reading api key: %w", err)
	}
	if found && row.Value != "" {
		return row.Value, false, nil
	}

	key, err := GenerateAPIKey()
	if err != nil {
		return "", false, err
	}

	row = models.GatewaySetting{Name: SettingAPIKey, Value: key}
	created, err := row.CreateIfAbsent(s.db)
	if err != nil {
		return "", false, fmt.Errorf("error persisting api key: %w", err)
	}
	if !created {
		// Lost the race; read the winner's key.
		if _, err := row.Get(s.db, SettingAPIKey); err != nil {
			return "", false, fmt.Errorf("error re-reading api key: %w", err)
		}
		return row.Value, false, nil
	}

	s.log.Info("generated new API key")
	return key, true, nil
}

// GenerateAPIKey creates a new random 32-character hexadecimal API key.
func GenerateAPIKey() (string, error) {
	id := uuid.New()
	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("error generating random bytes: %w", err)
	}

	raw := append(id[:8], random...)
	return hex.EncodeToString(raw), nil
}

// truthy interprets stored option values; the settings table stores toggles
// as "1"/"0".
func truthy(v string) bool {
	switch strings.TrimSpace(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
