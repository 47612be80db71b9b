package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"green2/internal/connection"
	"green2/internal/profile"
	"green2/internal/sepa"
	"green2/internal/tables"
)

// activeProfile returns the profile selected by --profile or the active one.
func activeProfile() (*profile.Profile, error) {
	return profile.Load(viper.GetViper(), profileName)
}

// openConnection connects to the database of the active profile.
func openConnection(ctx context.Context) (*profile.Profile, *connection.Connection, error) {
	p, err := activeProfile()
	if err != nil {
		return nil, nil, err
	}
	conn, err := p.Open(ctx, tables.All()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", p.Name, err)
	}
	info := conn.Info()
	log.Info().Str("profile", p.Name).Str("dialect", info.Dialect.String()).Str("database", info.DatabaseName).
		Msg("Connected")
	return p, conn, nil
}

// loadOriginator reads the creditor of SEPA direct debits.
func loadOriginator() (sepa.Originator, error) {
	var o sepa.Originator
	if err := viper.UnmarshalKey("originator", &o); err != nil {
		return o, fmt.Errorf("failed to parse originator config: %w", err)
	}
	return o, nil
}
