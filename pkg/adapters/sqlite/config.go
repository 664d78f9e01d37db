package sqlite

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds SQLite-specific configuration, decoded from adapter.Config.Params.
type Params struct {
	// Pragmas are applied to every new connection through the DSN
	// (e.g. journal_mode: wal, busy_timeout: 5000).
	Pragmas map[string]string `mapstructure:"pragmas"`
}

// ParseParams decodes the target params block.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid sqlite params: %w", err)
	}
	return p, nil
}
