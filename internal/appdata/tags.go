package appdata

import (
	"slices"
	"strings"

	"github.com/gravitrone/oophub/internal/api"
)

// FilterByTags returns the topics carrying every tag in selected.
// An empty selection returns topics unchanged.
func FilterByTags(topics []api.Topic, selected []api.ID) []api.Topic {
	if len(selected) == 0 {
		return topics
	}
	out := make([]api.Topic, 0, len(topics))
	for _, t := range topics {
		if hasAllTags(t, selected) {
			out = append(out, t)
		}
	}
	return out
}

func hasAllTags(t api.Topic, selected []api.ID) bool {
	for _, id := range selected {
		if !t.HasTag(id) {
			return false
		}
	}
	return true
}

// DeriveTags collects the distinct tags of topics, sorted by name.
func DeriveTags(topics []api.Topic) []api.Tag {
	seen := make(map[api.ID]struct{})
	var tags []api.Tag
	for _, t := range topics {
		for _, tag := range t.Tags {
			if _, ok := seen[tag.ID]; ok {
				continue
			}
			seen[tag.ID] = struct{}{}
			tags = append(tags, tag)
		}
	}
	slices.SortStableFunc(tags, func(a, b api.Tag) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return tags
}
