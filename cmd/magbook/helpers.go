// Shared helpers for magbook CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/coilworks/magbook/internal/sqlite"
	"github.com/coilworks/magbook/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// newID generates a new UUID v7 identifier. IDs are minted at the CLI
// boundary; the store never generates them.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// isTableNotFound returns true if the error wraps ErrTableNotFound.
func isTableNotFound(err error) bool {
	return errors.Is(err, types.ErrTableNotFound)
}

// isEntityNotFound returns true if the error wraps ErrNotFound.
func isEntityNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// parseFieldArgs parses key=value arguments into an update field map.
func parseFieldArgs(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid field %q (expected key=value)", arg)
		}
		fields[parts[0]] = parts[1]
	}
	return fields, nil
}
