package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&AuditLogEntry{},
		&GatewaySetting{},
	}
}
