package steps

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/howscary-backend/internal/data/repos"
	types "github.com/yungbote/howscary-backend/internal/domain/wiki"
	"github.com/yungbote/howscary-backend/internal/integrations"
	"github.com/yungbote/howscary-backend/internal/platform/slug"
)

const maxNumberedSlugs = 1000

// UniqueSlug returns the first free slug for the candidate, widening the base
// with its description, type and year before falling back to a counter.
func UniqueSlug(ctx context.Context, tx *gorm.DB, entities repos.EntityRepo, c types.Candidate) (string, error) {
	base := slug.ForEntity(c.Name, c.Description)
	taken, err := entities.SlugTaken(ctx, tx, base)
	if err != nil {
		return "", err
	}
	if taken == nil {
		return base, nil
	}

	descSlug := slug.Make(c.Description)
	if strings.EqualFold(c.Description, "thing") {
		descSlug = ""
	}
	year := integrations.ExtractYear(c.Description)
	if year == "" {
		year = integrations.ExtractYear(c.DetailedDescription)
	}

	var tries []string
	if descSlug != "" && descSlug != base {
		tries = append(tries, base+"-"+descSlug)
	}
	if primary := c.PrimaryType(); taken.EntityType != primary {
		if typeSlug := slug.Make(primary); typeSlug != "" {
			tries = append(tries, base+"-"+typeSlug)
		}
	}
	if year != "" {
		tries = append(tries, base+"-"+year)
		if descSlug != "" {
			tries = append(tries, base+"-"+descSlug+"-"+year)
		}
	}
	for _, s := range tries {
		row, err := entities.SlugTaken(ctx, tx, s)
		if err != nil {
			return "", err
		}
		if row == nil {
			return s, nil
		}
	}
	for n := 2; n <= maxNumberedSlugs; n++ {
		s := fmt.Sprintf("%s-%d", base, n)
		row, err := entities.SlugTaken(ctx, tx, s)
		if err != nil {
			return "", err
		}
		if row == nil {
			return s, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
