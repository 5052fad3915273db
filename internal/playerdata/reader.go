package playerdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FileExt is the extension of player snapshot files.
const FileExt = ".dat"

// ReadDir decodes every player file in dir, in file name order.
//
// Failing to list dir is an error. A file that cannot be opened or decoded is
// logged and left out of the result.
func ReadDir(dir string, codec Codec) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read playerdata directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	records := make([]*Record, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)

		rec, err := readFile(path, codec)
		if err != nil {
			slog.Warn("skipping player file", "path", path, "error", err)
			continue
		}

		rec.ID = idFromName(name)
		rec.Path = path
		records = append(records, rec)
	}

	slog.Debug("read playerdata directory",
		"dir", dir,
		"files", len(names),
		"records", len(records))

	return records, nil
}

func readFile(path string, codec Codec) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return codec.Decode(f)
}

// idFromName returns the dashed UUID encoded in a file name, or the bare
// file stem when it is not a UUID.
func idFromName(name string) string {
	stem := strings.TrimSuffix(name, FileExt)
	if id, err := uuid.Parse(stem); err == nil {
		return id.String()
	}
	return stem
}
