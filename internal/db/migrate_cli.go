package db

import (
	"fmt"
	"io"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand. Output for the
// operator goes to out.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(out)
		return fmt.Errorf("missing migrate action")
	}

	// Open without migrating; the actions below manage the schema.
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	migrations := MigrationsFS()

	switch action := args[0]; action {
	case "up":
		if err := database.MigrateUp(migrations); err != nil {
			return err
		}
		fmt.Fprintln(out, "All migrations applied successfully")
		return printMigrateStatus(database, out)

	case "down":
		if err := database.MigrateDown(migrations); err != nil {
			return err
		}
		fmt.Fprintln(out, "Migration rolled back successfully")
		return printMigrateStatus(database, out)

	case "status":
		return printMigrateStatus(database, out)

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: heartaxis migrate force <version_number>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[1])
		}
		if err := database.MigrateForce(migrations, version); err != nil {
			return err
		}
		fmt.Fprintf(out, "Forced version to %d\n", version)
		return nil

	case "help":
		PrintMigrateHelp(out)
		return nil

	default:
		PrintMigrateHelp(out)
		return fmt.Errorf("unknown migrate action: %s", action)
	}
}

func printMigrateStatus(database *DB, out io.Writer) error {
	version, dirty, err := database.MigrateVersion(MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	if dirty {
		fmt.Fprintln(out, "WARNING: a migration failed mid-execution.")
		fmt.Fprintln(out, "Inspect the database, then run: heartaxis migrate force <version>")
	}
	return nil
}

// PrintMigrateHelp writes usage for the migrate subcommand.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprint(out, `Usage: heartaxis migrate <action> [args]

Actions:
  up                Apply all pending migrations
  down              Roll back the most recent migration
  status            Show the current schema version
  force <version>   Set the recorded version without running migrations
  help              Show this help
`)
}
