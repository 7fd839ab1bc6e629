// Shared helpers for larder CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input (exit code 1).
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as an environment or storage failure (exit code 2).
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps a command error to a process exit code. Errors that were not
// classified, such as cobra's argument validation, count as user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// isInputError reports whether err was caused by invalid records or filters.
func isInputError(err error) bool {
	for _, target := range []error{
		types.ErrInvalidName,
		types.ErrInvalidMacro,
		types.ErrInvalidData,
		types.ErrInvalidID,
		types.ErrInvalidFilter,
		types.ErrBackendEmpty,
		types.ErrBackendUnknown,
		types.ErrSugarPolicyUnknown,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// classify wraps err as a user or system error.
func classify(err error) error {
	if isInputError(err) {
		return userError(err)
	}
	return sysError(err)
}

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func (c *cli) attachBackend() (*sqlite.Backend, error) {
	dataDir, err := c.resolveDataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend:     c.cfg.GetString(cfgKeyBackend),
		DataDir:     dataDir,
		SugarPolicy: c.cfg.GetString(cfgKeySugarPolicy),
	}

	backend := sqlite.NewBackendWithLogger(log.Logger)
	if err := backend.Attach(cfg); err != nil {
		return nil, classify(fmt.Errorf("attach backend: %w", err))
	}

	return backend, nil
}

// foodsTable returns the foods table of an attached backend.
func foodsTable(backend *sqlite.Backend) (types.Table, error) {
	table, err := backend.GetTable(types.FoodsTable)
	if err != nil {
		return nil, sysError(fmt.Errorf("get table: %w", err))
	}
	return table, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printFoodTable prints foods in a human-readable table format.
func printFoodTable(w io.Writer, foods []types.Estimated) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No foods found.")
		return
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tNAME\tCARBS\tPROTEIN\tFAT\tSUGAR\tKCAL\tNOTICE")
	fmt.Fprintln(tw, "--\t----\t-----\t-------\t---\t-----\t----\t------")
	for _, f := range foods {
		name := truncate(f.Name, 40)
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%s\n",
			shortID(f.FoodID),
			name,
			f.Carbohydrates,
			f.Protein,
			f.Fat,
			f.Sugar,
			f.Energy,
			f.NoticeText(),
		)
	}
	tw.Flush()

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n") {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	fmt.Fprintf(w, "Total: %d food(s)\n", len(foods))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// shortID truncates an ID to its first 8 characters for readability.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
