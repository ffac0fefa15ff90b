package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/harvest7777/personal-brand-intern-project/internal/migration"
)

func runMigrate(args []string) {
	if len(args) < 1 {
		printMigrateUsage()
		os.Exit(1)
	}

	subcommand := args[0]
	subargs := args[1:]

	switch subcommand {
	case "up":
		withMigrator("migrate up", subargs, func(m *migration.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		})
	case "down":
		withMigrator("migrate down", subargs, func(m *migration.Migrator) error {
			if err := m.Steps(-1); err != nil {
				return err
			}
			fmt.Println("rolled back one migration")
			return nil
		})
	case "status":
		withMigrator("migrate status", subargs, func(m *migration.Migrator) error {
			statuses, err := m.Status()
			if err != nil {
				return err
			}
			for _, s := range statuses {
				mark := " "
				if s.Applied {
					mark = "x"
				}
				dirty := ""
				if s.Dirty {
					dirty = " (dirty)"
				}
				fmt.Printf("[%s] %d %s%s\n", mark, s.Version, s.Name, dirty)
			}
			return nil
		})
	case "version":
		withMigrator("migrate version", subargs, func(m *migration.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Println("no migrations applied")
				return nil
			}
			fmt.Printf("version %d (dirty: %v)\n", version, dirty)
			return nil
		})
	case "steps":
		if len(subargs) < 1 {
			fmt.Fprintln(os.Stderr, "migrate steps requires a count")
			os.Exit(1)
		}
		n, err := strconv.Atoi(subargs[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid step count %q\n", subargs[0])
			os.Exit(1)
		}
		withMigrator("migrate steps", subargs[1:], func(m *migration.Migrator) error {
			if err := m.Steps(n); err != nil {
				return err
			}
			fmt.Printf("applied %d step(s)\n", n)
			return nil
		})
	case "help", "-h", "--help":
		printMigrateUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown migrate subcommand: %s\n", subcommand)
		printMigrateUsage()
		os.Exit(1)
	}
}

// withMigrator loads config, builds a migrator and runs fn, handling flag
// parsing and cleanup uniformly across subcommands.
func withMigrator(name string, args []string, fn func(*migration.Migrator) error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	migrator, err := migration.NewMigrator(cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	defer migrator.Close()

	if err := fn(migrator); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
		os.Exit(1)
	}
}

func printMigrateUsage() {
	fmt.Println(`Database migration commands

Usage:
  brandagent migrate <subcommand> [options]

Subcommands:
  up        Apply all pending migrations
  down      Rollback the last migration
  status    Show migration status
  version   Show current migration version
  steps <n> Apply n migrations (negative rolls back)
  help      Show this help message

Options:
  --config <path>   Path to configuration file (YAML)

Examples:
  brandagent migrate up
  brandagent migrate status --config /etc/brandagent/config.yaml`)
}
