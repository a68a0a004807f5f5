package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 20

// MakeSlug turns a display name into a URL slug
func MakeSlug(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "card"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// SlugExists reports whether a slug is already taken
type SlugExists func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base, or base-2, base-3... until exists reports false.
// After maxSlugAttempts a short random suffix is used.
func UniqueSlug(ctx context.Context, name string, exists SlugExists) (string, error) {
	base := MakeSlug(name)
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}
