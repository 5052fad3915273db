package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/go-units"

	"github.com/steviee/mcghosts/internal/datapack"
	"github.com/steviee/mcghosts/internal/ghost"
	"github.com/steviee/mcghosts/internal/mojang"
	"github.com/steviee/mcghosts/internal/playerdata"
	"github.com/steviee/mcghosts/internal/state"
)

// Summary describes the result of a generate run.
type Summary struct {
	Records   int    `json:"records"`
	Ghosts    int    `json:"ghosts"`
	Skipped   int    `json:"skipped"`
	Degraded  int    `json:"degraded"`
	Files     int    `json:"files"`
	Bytes     int64  `json:"bytes"`
	OutputDir string `json:"output_dir"`
	CachePath string `json:"cache_path"`
	Cached    int    `json:"cached"`
}

// Output represents the JSON output format.
type Output struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// runGenerate reads the playerdata directory and writes the datapack.
func runGenerate(ctx context.Context, w io.Writer) error {
	summary, err := generate(ctx)
	if err != nil {
		return outputError(w, err)
	}

	if IsJSONOutput() {
		return writeJSON(w, Output{
			Status:  "success",
			Data:    summary,
			Message: fmt.Sprintf("Generated %d ghost(s)", summary.Ghosts),
		})
	}

	if IsQuiet() {
		return nil
	}

	return printSummary(w, summary)
}

func generate(ctx context.Context) (*Summary, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	wd, err := state.GetWorkDir()
	if err != nil {
		return nil, err
	}

	cachePath := state.CachePath(wd)
	lock, err := state.TryLockFile(state.LockPath(cachePath))
	if err != nil {
		if errors.Is(err, state.ErrLockHeld) {
			return nil, fmt.Errorf("another run is in progress in %s", wd)
		}
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release run lock", "path", lock.Path(), "error", err)
		}
	}()

	cache, err := mojang.LoadCache(cachePath)
	if err != nil {
		return nil, err
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

	compiler, err := ghost.NewCompiler(client, ghost.OptionsFromConfig(cfg.Ghosts))
	if err != nil {
		return nil, err
	}

	records, err := playerdata.ReadDir(state.ResolvePath(wd, cfg.Input.PlayerdataDir), playerdata.NBTCodec{})
	if err != nil {
		return nil, err
	}

	descs := compiler.CompileAll(ctx, records)

	settings := datapack.SettingsFromConfig(cfg)
	script, err := datapack.Build(descs, settings)
	if err != nil {
		return nil, err
	}

	files, err := script.Files(settings)
	if err != nil {
		return nil, err
	}

	outDir := state.ResolvePath(wd, cfg.Output.Dir)
	stats, err := datapack.Write(outDir, files)
	if err != nil {
		return nil, err
	}

	if err := cache.Save(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Records:   len(records),
		Ghosts:    len(descs),
		Skipped:   len(records) - len(descs),
		Files:     stats.Files,
		Bytes:     stats.Bytes,
		OutputDir: outDir,
		CachePath: cachePath,
		Cached:    cache.Len(),
	}
	for _, d := range descs {
		if d.Degraded {
			summary.Degraded++
		}
	}

	slog.Info("datapack generated",
		"ghosts", summary.Ghosts,
		"skipped", summary.Skipped,
		"output", outDir)

	return summary, nil
}

func printSummary(w io.Writer, s *Summary) error {
	_, _ = fmt.Fprintln(w, headerStyle.Render("Nostalgia Ghosts"))

	row := func(label, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
	}

	row("Ghosts", okStyle.Render(fmt.Sprintf("%d", s.Ghosts)))
	if s.Skipped > 0 {
		row("Skipped", warnStyle.Render(fmt.Sprintf("%d", s.Skipped)))
	}
	if s.Degraded > 0 {
		row("Unresolved", warnStyle.Render(fmt.Sprintf("%d", s.Degraded)))
	}
	row("Output", fmt.Sprintf("%s (%d files, %s)", s.OutputDir, s.Files, units.HumanSize(float64(s.Bytes))))
	row("Cache", fmt.Sprintf("%s (%d names)", s.CachePath, s.Cached))

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	return nil
}

func outputError(w io.Writer, err error) error {
	if IsJSONOutput() {
		_ = writeJSON(w, Output{
			Status: "error",
			Error:  err.Error(),
		})
	}
	return err
}
