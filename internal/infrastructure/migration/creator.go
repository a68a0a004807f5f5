package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/gosimple/slug"
)

const migrationTemplate = `-- Migration: {{.Name}}{{if .Down}} (rollback){{end}}
-- Created: {{.Timestamp}}

`

// MigrationFile is a newly created up/down pair
type MigrationFile struct {
	Version  int
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes the next sequential up/down pair into dir,
// numbered after the highest existing version.
func CreateMigration(dir, name string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, m := range existing {
		prefix, _, _ := strings.Cut(m, "_")
		if v, err := strconv.Atoi(prefix); err == nil && v >= next {
			next = v + 1
		}
	}

	stem := fmt.Sprintf("%06d_%s", next, base)
	mf := &MigrationFile{
		Version:  next,
		Name:     name,
		UpPath:   filepath.Join(dir, stem+".up.sql"),
		DownPath: filepath.Join(dir, stem+".down.sql"),
	}

	if err := writeTemplate(mf.UpPath, mf.Name, false); err != nil {
		return nil, err
	}
	if err := writeTemplate(mf.DownPath, mf.Name, true); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeTemplate(path, name string, down bool) error {
	tmpl := template.Must(template.New("migration").Parse(migrationTemplate))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, struct {
		Name      string
		Timestamp string
		Down      bool
	}{name, time.Now().Format(time.RFC3339), down})
}

// sanitizeName turns "Add Payout Notes" into "add_payout_notes"
func sanitizeName(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// ListMigrations returns the base names of the up files in dir, sorted
func ListMigrations(dir string) ([]string, error) {
	names, err := UpFiles(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimSuffix(n, ".up.sql"))
	}
	return out, nil
}
