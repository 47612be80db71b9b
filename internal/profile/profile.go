// Package profile describes the databases green2 can work on.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"green2/internal/connection"
	"green2/internal/dialect"
	"green2/internal/schema"
)

// SSH configures the host running the command line client of the DBMS.
type SSH struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Charset  string `mapstructure:"charset"`
}

type Profile struct {
	Name        string `mapstructure:"name"`
	Active      bool   `mapstructure:"active"`
	DBMS        string `mapstructure:"dbms"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Database    string `mapstructure:"database"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	SSH         SSH    `mapstructure:"ssh"`
	SEPAWithBOM bool   `mapstructure:"sepa_with_bom"`
}

// Load returns the profile called name or, if name is empty, the only active one.
func Load(v *viper.Viper, name string) (*Profile, error) {
	var profiles []Profile
	if err := v.UnmarshalKey("profiles", &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles config: %w", err)
	}

	var selected *Profile
	count := 0
	for i := range profiles {
		if (name == "" && profiles[i].Active) || (name != "" && profiles[i].Name == name) {
			selected = &profiles[i]
			count++
		}
	}

	switch {
	case count == 0 && name != "":
		return nil, fmt.Errorf("no profile called %q found in config", name)
	case count == 0:
		return nil, errors.New("no active profile found in config (set active: true)")
	case count > 1 && name != "":
		return nil, fmt.Errorf("multiple profiles called %q found", name)
	case count > 1:
		return nil, errors.New("multiple active profiles found (only one can be active)")
	}

	if err := selected.Validate(); err != nil {
		return nil, err
	}
	return selected, nil
}

// Validate checks that the profile describes a reachable database.
func (p *Profile) Validate() error {
	d, err := p.Dialect()
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if p.Database == "" {
		return fmt.Errorf("profile %s: database is required", p.Name)
	}
	if d != dialect.SQLite && p.Host == "" {
		return fmt.Errorf("profile %s: host is required for %s", p.Name, d)
	}
	if p.SSH.Enabled && p.SSH.Host == "" {
		return fmt.Errorf("profile %s: ssh host is required", p.Name)
	}
	return nil
}

func (p *Profile) Dialect() (*dialect.Dialect, error) {
	return dialect.GetDialect(p.DBMS)
}

// Info identifies the database of the profile.
func (p *Profile) Info() (connection.Info, error) {
	d, err := p.Dialect()
	if err != nil {
		return connection.Info{}, err
	}
	return connection.Info{DatabaseName: p.Database, Dialect: d}, nil
}

func (p *Profile) SQLConfig() (connection.SQLConfig, error) {
	d, err := p.Dialect()
	if err != nil {
		return connection.SQLConfig{}, err
	}
	return connection.SQLConfig{
		Dialect:  d,
		Host:     p.Host,
		Port:     p.Port,
		Database: p.Database,
		User:     p.User,
		Password: p.Password,
	}, nil
}

// Executor connects to the database of the profile, tunneled through SSH if enabled.
func (p *Profile) Executor(ctx context.Context) (connection.Executor, error) {
	cfg, err := p.SQLConfig()
	if err != nil {
		return nil, err
	}
	if p.SSH.Enabled {
		log.Debug().Str("profile", p.Name).Str("host", p.SSH.Host).Msg("Connecting over ssh")
		return connection.DialSSH(ctx, connection.SSHConfig{
			Host:     p.SSH.Host,
			Port:     p.SSH.Port,
			User:     p.SSH.User,
			Password: p.SSH.Password,
			Charset:  p.SSH.Charset,
		}, cfg)
	}
	log.Debug().Str("profile", p.Name).Str("dialect", cfg.Dialect.String()).Msg("Connecting")
	return connection.OpenSQL(ctx, cfg)
}

// Open returns a connection reconciling tables with the database of the profile.
func (p *Profile) Open(ctx context.Context, tables ...schema.Table) (*connection.Connection, error) {
	info, err := p.Info()
	if err != nil {
		return nil, err
	}
	exec, err := p.Executor(ctx)
	if err != nil {
		return nil, err
	}
	return connection.New(exec, info, tables...), nil
}

// Switch points conn to the database of the profile.
func (p *Profile) Switch(ctx context.Context, conn *connection.Connection) error {
	info, err := p.Info()
	if err != nil {
		return err
	}
	exec, err := p.Executor(ctx)
	if err != nil {
		return err
	}
	conn.OnProfileChanged(exec, info)
	return nil
}
