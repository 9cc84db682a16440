package kit

import (
	"context"
	"strings"

	"kitreport/pkg/models"
)

// Selector names used by the dashboard; the suggestion map is keyed
// by these.
const (
	TargetFacebook  = "facebook"
	TargetCreator   = "creator"
	TargetSparkloop = "sparkloop"
)

// Fallback tag ids suggested when no account tag name matches.
const (
	DefaultFacebookTag  models.TagID = "4155625"
	DefaultCreatorTag   models.TagID = "4090509"
	DefaultSparkloopTag models.TagID = "5023500"
)

// tagVariations maps each selector to the tag-name fragments that
// identify it, most specific first.
var tagVariations = map[string][]string{
	TargetFacebook:  {"facebook ads", "facebook ad", "fb ads", "fb ad", "facebook", "paid ads", "paid"},
	TargetCreator:   {"creator network", "creator", "network", "cn", "ambassador"},
	TargetSparkloop: {"sparkloop", "spark loop", "spark", "loop", "referral", "refer"},
}

var defaultTags = map[string]models.TagID{
	TargetFacebook:  DefaultFacebookTag,
	TargetCreator:   DefaultCreatorTag,
	TargetSparkloop: DefaultSparkloopTag,
}

type tagsResponse struct {
	Tags []models.Tag `json:"tags"`
}

// AllTags fetches every tag on the account and suggests a default per
// dashboard selector.
func (c *Client) AllTags(ctx context.Context) (*models.TagCatalog, error) {
	var resp tagsResponse
	if err := c.get(ctx, "tags", nil, &resp); err != nil {
		return nil, err
	}

	return &models.TagCatalog{
		AllTags: resp.Tags,
		Suggested: map[string]*models.TagID{
			TargetFacebook:  SuggestTag(resp.Tags, TargetFacebook),
			TargetCreator:   SuggestTag(resp.Tags, TargetCreator),
			TargetSparkloop: SuggestTag(resp.Tags, TargetSparkloop),
		},
	}, nil
}

// SuggestTag picks the tag whose name contains the earliest-listed
// variation for the selector, falling back to the fixed default id.
// The default may not exist on the account; callers treat unknown ids
// as no selection.
func SuggestTag(tags []models.Tag, target string) *models.TagID {
	for _, variation := range tagVariations[target] {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag.Name), variation) {
				id := tag.ID
				return &id
			}
		}
	}

	if id, ok := defaultTags[target]; ok {
		return &id
	}
	return nil
}
