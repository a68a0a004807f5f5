package migration

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/taponce/backend/migrations"
)

// UpFiles lists the embedded up migrations in apply order
func UpFiles(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// SchemaSQL concatenates every up migration and, when withPolicies is set,
// the row-level-security statements. The result is meant to be pasted into
// a hosted database console.
func SchemaSQL(withPolicies bool) (string, error) {
	var b strings.Builder

	names, err := UpFiles(migrations.FS)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		data, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		fmt.Fprintf(&b, "-- %s\n%s\n", name, strings.TrimSpace(string(data)))
		b.WriteString("\n")
	}

	if withPolicies {
		policies, err := fs.Glob(migrations.Policies, "policies/*.sql")
		if err != nil {
			return "", fmt.Errorf("failed to list policies: %w", err)
		}
		sort.Strings(policies)
		for _, name := range policies {
			data, err := fs.ReadFile(migrations.Policies, name)
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", name, err)
			}
			fmt.Fprintf(&b, "-- %s\n%s\n\n", name, strings.TrimSpace(string(data)))
		}
	}
	return b.String(), nil
}
