package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Field mapping follows
// the `env` and `envPrefix` tags on [StructuredConfig] and its nested
// sections, so SERVER_ADDRESS lands in Server.HTTPAddress and so on.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
