package helper

//nolint:revive
import (
	"errors"
	"expo/config"
	"expo/infras/postgres"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionStepUp  Action = "step-up"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

// migrationDSN targets the write endpoint with the configured migrations table.
func migrationDSN(cfg *config.Config) string {
	_, write := postgres.Endpoints(cfg)

	extra := url.Values{}
	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		extra.Set("x-migrations-table", table)
	}

	return write.DSN(extra)
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationSource, migrationDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func apply(mig *migrate.Migrate, action Action) error {
	switch action {
	case ActionUp:
		return mig.Up() //nolint:wrapcheck
	case ActionDown:
		return mig.Steps(-1) //nolint:wrapcheck
	case ActionStepUp:
		return mig.Steps(1) //nolint:wrapcheck
	case ActionDrop:
		return mig.Down() //nolint:wrapcheck
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

// Run executes a single migration action against the write database.
func Run(cfg *config.Config, action Action) error {
	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	err = apply(mig, action)

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info().Str("action", string(action)).Msg("Database schema already up to date")

		return nil
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Msg("Database has no migrations applied")

		return nil
	case err != nil:
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed")

	return nil
}

// AutoMigrate brings the schema up to date when DB_POSTGRES_AUTO_MIGRATE is set.
func AutoMigrate(cfg *config.Config) error {
	if !cfg.DB.Postgres.AutoMigrate {
		return nil
	}

	return Run(cfg, ActionUp)
}
