package migration

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/config"
)

//go:embed migrations/sqlite/*.sql
var sqliteFS embed.FS

//go:embed migrations/postgres/*.sql
var postgresFS embed.FS

// Status describes one versioned migration.
type Status struct {
	Version uint
	Name    string
	Applied bool
	Dirty   bool
}

// Migrator applies the embedded migrations for one database.
type Migrator struct {
	migrate *migrate.Migrate
	driver  string
	logger  *zap.Logger
}

// NewMigrator builds a migrator for the configured database.
func NewMigrator(cfg config.DatabaseConfig, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsys, dir, url, err := dialect(cfg)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Migrator{
		migrate: m,
		driver:  cfg.Driver,
		logger:  logger.With(zap.String("component", "migration")),
	}, nil
}

// dialect resolves the embedded source and connection URL for cfg.
func dialect(cfg config.DatabaseConfig) (fs.FS, string, string, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqliteFS, "migrations/sqlite", "sqlite://" + cfg.DSN, nil
	case "postgres":
		url := cfg.DSN
		if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
			return nil, "", "", fmt.Errorf("postgres DSN must be a postgres:// URL, got %q", cfg.DSN)
		}
		return postgresFS, "migrations/postgres", url, nil
	default:
		return nil, "", "", fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Up applies all pending migrations. Already up to date is not an error.
func (m *Migrator) Up() error {
	if err := m.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	version, _, _ := m.Version()
	m.logger.Info("migrations applied",
		zap.String("driver", m.driver),
		zap.Uint("version", version),
	)
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Steps applies n migrations forward, or rolls back -n.
func (m *Migrator) Steps(n int) error {
	if err := m.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return nil
}

// Version returns the current schema version. A database with no applied
// migrations reports version 0 without error.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// Status lists the embedded migrations with their applied state.
func (m *Migrator) Status() ([]Status, error) {
	current, dirty, err := m.Version()
	if err != nil {
		return nil, err
	}

	available, err := availableMigrations(m.driver)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(available))
	for _, mig := range available {
		statuses = append(statuses, Status{
			Version: mig.version,
			Name:    mig.name,
			Applied: mig.version <= current,
			Dirty:   dirty && mig.version == current,
		})
	}
	return statuses, nil
}

// Close releases the migrator's source and database handles.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.migrate.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

type migrationFile struct {
	version uint
	name    string
}

// availableMigrations parses versions out of the embedded up files, e.g.
// 000001_create_unanswered_questions.up.sql.
func availableMigrations(driver string) ([]migrationFile, error) {
	var fsys fs.FS
	var dir string
	switch driver {
	case "sqlite":
		fsys, dir = sqliteFS, "migrations/sqlite"
	case "postgres":
		fsys, dir = postgresFS, "migrations/postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var migrations []migrationFile
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		parts := strings.SplitN(name, "_", 2)
		if len(parts) < 2 {
			continue
		}
		version, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			continue
		}
		migrations = append(migrations, migrationFile{
			version: uint(version),
			name:    strings.TrimSuffix(parts[1], ".up.sql"),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}
