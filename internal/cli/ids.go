package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steviee/mcghosts/internal/mojang"
	"github.com/steviee/mcghosts/internal/state"
)

// IDEntry is one resolved username.
type IDEntry struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// NewIDsCommand creates the ids command.
func NewIDsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ids <username> [username...]",
		Short: "Resolve usernames to UUIDs",
		Long: `Resolve usernames to UUIDs with the Mojang bulk profile endpoint.

Names are sent in batches of up to 100. Every resolved name is stored in the
working directory's name cache, so a later run can label ghosts without
querying the session server.`,
		Example: `  # Resolve a single player
  mcghosts ids Notch

  # Resolve several players and print JSON
  mcghosts ids --json Notch jeb_ Dinnerbone`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIDs(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	return cmd
}

func runIDs(ctx context.Context, w io.Writer, names []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return outputError(w, err)
	}

	wd, err := state.GetWorkDir()
	if err != nil {
		return outputError(w, err)
	}

	cachePath := state.CachePath(wd)
	lock, err := state.TryLockFile(state.LockPath(cachePath))
	if err != nil {
		if errors.Is(err, state.ErrLockHeld) {
			err = fmt.Errorf("another run is in progress in %s", wd)
		}
		return outputError(w, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release run lock", "path", lock.Path(), "error", err)
		}
	}()

	cache, err := mojang.LoadCache(cachePath)
	if err != nil {
		return outputError(w, err)
	}

	client := mojang.NewClient(&mojang.Config{
		SessionURL:   cfg.Mojang.SessionURL,
		APIURL:       cfg.Mojang.APIURL,
		Timeout:      cfg.Mojang.Timeout,
		Cache:        cache,
		BatchSize:    cfg.Mojang.BatchSize,
		BatchDelay:   cfg.Mojang.BatchDelay,
		BatchBackoff: cfg.Mojang.BatchBackoff,
		RateLimit:    cfg.Mojang.RateLimit,
	})

	resolved := client.ResolveNames(ctx, names)

	if err := cache.Save(); err != nil {
		return outputError(w, err)
	}

	found := make([]IDEntry, 0, len(resolved))
	for name, id := range resolved {
		found = append(found, IDEntry{Name: name, UUID: id})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })

	missing := unresolved(names, resolved)

	if IsJSONOutput() {
		data := map[string]interface{}{
			"resolved": found,
		}
		if len(missing) > 0 {
			data["missing"] = missing
		}
		status := "success"
		if len(found) == 0 {
			status = "error"
		}
		return writeJSON(w, Output{
			Status:  status,
			Data:    data,
			Message: fmt.Sprintf("Resolved %d of %d name(s)", len(found), len(names)),
		})
	}

	for _, e := range found {
		_, _ = fmt.Fprintf(w, "%s %s\n", e.UUID, e.Name)
	}

	if len(missing) > 0 && !IsQuiet() {
		_, _ = fmt.Fprintf(w, "\nNot found (%d):\n", len(missing))
		for _, name := range missing {
			_, _ = fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	if len(found) == 0 {
		return fmt.Errorf("no usernames could be resolved")
	}

	return nil
}

// unresolved returns the requested names missing from resolved, compared
// case-insensitively since the endpoint returns the canonical spelling.
func unresolved(names []string, resolved map[string]string) []string {
	seen := make(map[string]bool, len(resolved))
	for name := range resolved {
		seen[strings.ToLower(name)] = true
	}

	var out []string
	for _, name := range names {
		if !seen[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	return out
}
