package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	BackupDir        string `mapstructure:"backup_dir"`
	// BackupsToKeep caps how many store snapshots survive pruning,
	// zero keeps all of them.
	BackupsToKeep int `mapstructure:"backups_to_keep"`
}

func (config DBConfig) validate() error {

	if config.ConnectionString == "" {
		return fmt.Errorf("missing variable: db connection string")
	}

	if config.BackupsToKeep < 0 {
		return fmt.Errorf("backups_to_keep must be non-negative")
	}

	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}
