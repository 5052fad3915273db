package datapack

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/steviee/mcghosts/internal/state"
)

// File is one generated file, Path relative to the datapack root using
// forward slashes.
type File struct {
	Path    string
	Content []byte
}

// Stats summarizes a Write.
type Stats struct {
	Files int
	Bytes int64
}

type packMeta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

type functionTag struct {
	Values []string `json:"values"`
}

// Files lays the script out as datapack files in a fixed order.
func (sc *Script) Files(s Settings) ([]File, error) {
	var meta packMeta
	meta.Pack.PackFormat = s.PackFormat
	meta.Pack.Description = s.Description

	metaJSON, err := indentJSON(meta)
	if err != nil {
		return nil, err
	}
	loadJSON, err := indentJSON(functionTag{Values: []string{
		s.function(FuncInit),
		s.function(FuncDespawnAll),
		s.function(FuncSpawnAll),
	}})
	if err != nil {
		return nil, err
	}
	tickJSON, err := indentJSON(functionTag{Values: []string{s.function(FuncTick)}})
	if err != nil {
		return nil, err
	}

	spawn := make([]string, 0, len(sc.Creation)+len(sc.Indexing))
	spawn = append(spawn, sc.Creation...)
	spawn = append(spawn, sc.Indexing...)

	files := []File{
		{Path: "pack.mcmeta", Content: metaJSON},
		{Path: "data/minecraft/tags/functions/load.json", Content: loadJSON},
		{Path: "data/minecraft/tags/functions/tick.json", Content: tickJSON},
	}

	functions := []struct {
		name  string
		lines []string
	}{
		{FuncInit, sc.Init},
		{FuncSpawnAll, []string{sc.Guard}},
		{FuncSpawnAllActual, spawn},
		{FuncDespawnAll, []string{sc.Cleanup}},
		{FuncTeleportGoto, sc.Navigation.Goto()},
		{FuncTeleportNext, sc.Navigation.Advance},
		{FuncTeleportPrev, sc.Navigation.Retreat},
		{FuncOnUse, sc.Navigation.OnUse},
		{FuncTick, sc.Tick},
	}
	for _, fn := range functions {
		files = append(files, File{
			Path:    functionPath(s.Namespace, fn.name),
			Content: []byte(strings.Join(fn.lines, "\n") + "\n"),
		})
	}

	return files, nil
}

// Write writes files below root, each one atomically.
func Write(root string, files []File) (Stats, error) {
	var stats Stats

	for _, f := range files {
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := state.AtomicWrite(target, f.Content, 0644); err != nil {
			return stats, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		stats.Files++
		stats.Bytes += int64(len(f.Content))
	}

	slog.Debug("wrote datapack", "root", root, "files", stats.Files, "bytes", stats.Bytes)
	return stats, nil
}

func functionPath(namespace, name string) string {
	return path.Join("data", namespace, "functions", name+".mcfunction")
}

func indentJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}
