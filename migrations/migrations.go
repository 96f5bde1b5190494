// Package migrations embeds the SurrealDB schema and applies it in version order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/forgo/missions/api/internal/database"
)

//go:embed *.surql
var files embed.FS

// Migration is one versioned schema file
type Migration struct {
	Version int
	Name    string
	Query   string
}

// Load returns the embedded migrations sorted by version. File names must
// start with a numeric version followed by an underscore.
func Load() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := files.ReadFile(e.Name())
		if err != nil {
			return nil, err
		}
		var v int
		if _, err := fmt.Sscanf(e.Name(), "%d_", &v); err != nil {
			return nil, fmt.Errorf("invalid migration filename %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: v, Name: e.Name(), Query: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Apply runs every migration newer than the highest recorded version and
// records each one in schema_migration.
func Apply(ctx context.Context, db database.Database) error {
	migs, err := Load()
	if err != nil {
		return err
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if m.Version <= current {
			continue
		}
		if err := db.Execute(ctx, m.Query, nil); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		record := `CREATE schema_migration SET version = $version, name = $name, applied_on = time::now()`
		if err := db.Execute(ctx, record, map[string]interface{}{"version": m.Version, "name": m.Name}); err != nil {
			return fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		current = m.Version
	}
	return nil
}

func currentVersion(ctx context.Context, db database.Database) (int, error) {
	results, err := db.Query(ctx, `SELECT math::max(version) AS version FROM schema_migration GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	rec, err := database.FirstRecord(results)
	if err != nil || rec == nil {
		return 0, nil
	}
	row, ok := rec.(map[string]interface{})
	if !ok {
		return 0, nil
	}
	switch v := row["version"].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, nil
}
