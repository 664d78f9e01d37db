package config

import "time"

// Default configuration values.
const (
	DefaultTimeout = 5 * time.Second
	DefaultPGPort  = 5432
)

// DefaultSchemaForType returns the default schema for a database type.
func DefaultSchemaForType(dbType string) string {
	switch dbType {
	case "postgres":
		return "public"
	default:
		return "main"
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Timeout == 0 {
		t.Timeout = DefaultTimeout
	}

	if t.Type == "postgres" {
		if t.Port == 0 {
			t.Port = DefaultPGPort
		}
	}
}
