package search

import (
	"fmt"
	"slices"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/fuzzy"
)

// Kind discriminates the result variants.
type Kind string

const (
	KindCategory Kind = "category"
	KindTopic    Kind = "topic"
	KindSection  Kind = "section"
)

// Result is one search hit. CategoryID is set for topics, TopicID and
// TopicTitle for sections. Local category hits carry their first topic in
// TopicID.
type Result struct {
	Kind       Kind
	ID         api.ID
	Title      string
	Meta       string
	Score      *float64
	CategoryID api.ID
	TopicID    api.ID
	TopicTitle string
	Tags       []api.Tag
}

// ScoreValue returns the score, treating a missing one as zero.
func (r Result) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// Flatten turns a remote response into one list of topics, sections and
// categories, stable-sorted by descending score.
func Flatten(resp *api.SearchResponse) []Result {
	if resp == nil {
		return nil
	}
	results := make([]Result, 0, len(resp.Topics)+len(resp.Sections)+len(resp.Categories))
	for _, t := range resp.Topics {
		results = append(results, Result{
			Kind:       KindTopic,
			ID:         t.ID,
			Title:      t.Title,
			Meta:       t.CategoryName,
			Score:      t.Score,
			CategoryID: t.CategoryID,
			Tags:       t.Tags,
		})
	}
	for _, s := range resp.Sections {
		results = append(results, Result{
			Kind:       KindSection,
			ID:         s.ID,
			Title:      s.Heading,
			Meta:       topicMeta(s.TopicTitle),
			Score:      s.Score,
			TopicID:    s.TopicID,
			TopicTitle: s.TopicTitle,
		})
	}
	for _, c := range resp.Categories {
		meta := c.Description
		if meta == "" {
			meta = fmt.Sprintf("%d topics", c.TopicCount)
		}
		results = append(results, Result{
			Kind:  KindCategory,
			ID:    c.ID,
			Title: c.DisplayTitle(),
			Meta:  meta,
			Score: c.Score,
		})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		sa, sb := a.ScoreValue(), b.ScoreValue()
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	})
	return results
}

func topicMeta(title string) string {
	return "In topic: " + title
}

// Dataset is the already-loaded catalog scanned by local search.
type Dataset struct {
	Categories []api.Category
	Topics     []api.Topic
	Sections   []api.Section
}

// Local matches query against the dataset. Results keep collection order:
// categories, then topics, then sections. No scores are assigned.
func Local(ds Dataset, query string) []Result {
	if query == "" {
		return nil
	}

	categoryNames := make(map[api.ID]string, len(ds.Categories))
	for _, c := range ds.Categories {
		categoryNames[c.ID] = c.Name
	}
	topicTitles := make(map[api.ID]string, len(ds.Topics))
	firstTopic := make(map[api.ID]api.ID)
	topicCount := make(map[api.ID]int)
	for _, t := range ds.Topics {
		topicTitles[t.ID] = t.Title
		if _, ok := firstTopic[t.CategoryID]; !ok {
			firstTopic[t.CategoryID] = t.ID
		}
		topicCount[t.CategoryID]++
	}

	var results []Result
	for _, c := range ds.Categories {
		if !fuzzy.MatchesAny(query, c.Name, c.Description) {
			continue
		}
		meta := c.Description
		if meta == "" {
			meta = fmt.Sprintf("%d topics", topicCount[c.ID])
		}
		results = append(results, Result{
			Kind:    KindCategory,
			ID:      c.ID,
			Title:   c.Name,
			Meta:    meta,
			TopicID: firstTopic[c.ID],
		})
	}
	for _, t := range ds.Topics {
		if !fuzzy.MatchesAny(query, t.Title, t.ShortDefinition) {
			continue
		}
		results = append(results, Result{
			Kind:       KindTopic,
			ID:         t.ID,
			Title:      t.Title,
			Meta:       categoryNames[t.CategoryID],
			CategoryID: t.CategoryID,
			Tags:       t.Tags,
		})
	}
	for _, s := range ds.Sections {
		if !fuzzy.MatchesAny(query, s.Heading, s.Content) {
			continue
		}
		title := topicTitles[s.TopicID]
		results = append(results, Result{
			Kind:       KindSection,
			ID:         s.ID,
			Title:      s.Heading,
			Meta:       topicMeta(title),
			TopicID:    s.TopicID,
			TopicTitle: title,
		})
	}
	return results
}

// Group is a display bucket of results of one kind.
type Group struct {
	Kind  Kind
	Label string
	Items []Indexed
}

// Indexed is a result with its position in the flat result list.
type Indexed struct {
	Index int
	Result
}

var groupOrder = []struct {
	kind  Kind
	label string
}{
	{KindTopic, "Topics"},
	{KindCategory, "Categories"},
	{KindSection, "Sections"},
}

// GroupResults buckets results by kind in display order, dropping empty
// groups. Each item keeps its index into results for highlight tracking.
func GroupResults(results []Result) []Group {
	var groups []Group
	for _, g := range groupOrder {
		var items []Indexed
		for i, r := range results {
			if r.Kind == g.kind {
				items = append(items, Indexed{Index: i, Result: r})
			}
		}
		if len(items) == 0 {
			continue
		}
		groups = append(groups, Group{
			Kind:  g.kind,
			Label: fmt.Sprintf("%s (%d)", g.label, len(items)),
			Items: items,
		})
	}
	return groups
}

// Selection is where choosing a result leads.
type Selection struct {
	Result
	// Topic is the topic to open; empty when the result only closes search.
	Topic api.ID
	// Category is the topic's category when known.
	Category api.ID
}

// resolve computes the navigation target of r against the result list it
// came from. A section borrows the category of its parent topic when that
// topic is part of the same results.
func resolve(results []Result, r Result) Selection {
	sel := Selection{Result: r}
	switch r.Kind {
	case KindTopic:
		sel.Topic = r.ID
		sel.Category = r.CategoryID
	case KindSection:
		sel.Topic = r.TopicID
		for _, other := range results {
			if other.Kind == KindTopic && other.ID == r.TopicID {
				sel.Category = other.CategoryID
				break
			}
		}
	case KindCategory:
		if r.TopicID != "" {
			sel.Topic = r.TopicID
			sel.Category = r.ID
		}
	}
	return sel
}
