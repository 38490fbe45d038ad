package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/oophub/internal/api"
)

func TestFlattenSortsByScoreStable(t *testing.T) {
	resp := &api.SearchResponse{
		Topics: []api.SearchTopic{
			{Topic: api.Topic{ID: "t1", CategoryID: "c1", Title: "Low"}, CategoryName: "Basics", Score: score(0.2)},
			{Topic: api.Topic{ID: "t2", Title: "NoScore"}},
		},
		Sections: []api.SearchSection{
			{Section: api.Section{ID: "s1", TopicID: "t1", Heading: "High"}, TopicTitle: "Low", Score: score(0.9)},
		},
		Categories: []api.SearchCategory{
			{ID: "c1", Title: "Basics", TopicCount: 4, Score: score(0.2)},
			{ID: "c2", Name: "Patterns", Description: "GoF"},
		},
	}

	got := Flatten(resp)
	require.Len(t, got, 5)
	ids := make([]api.ID, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []api.ID{"s1", "t1", "c1", "t2", "c2"}, ids)

	assert.Equal(t, "In topic: Low", got[0].Meta)
	assert.Equal(t, api.ID("t1"), got[0].TopicID)
	assert.Equal(t, "Basics", got[1].Meta)
	assert.Equal(t, api.ID("c1"), got[1].CategoryID)
	assert.Equal(t, "4 topics", got[2].Meta)
	assert.Equal(t, "Patterns", got[4].Title)
	assert.Equal(t, "GoF", got[4].Meta)
}

func TestFlattenNil(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten(&api.SearchResponse{}))
}

func TestLocalOrderIsInsertionOrder(t *testing.T) {
	ds := Dataset{
		Categories: []api.Category{{ID: "c1", Name: "Classes and objects"}},
		Topics: []api.Topic{
			{ID: "t2", CategoryID: "c1", Title: "Abstract class"},
			{ID: "t1", CategoryID: "c1", Title: "Class"},
		},
		Sections: []api.Section{
			{ID: "s1", TopicID: "t1", Heading: "Class syntax"},
		},
	}

	got := Local(ds, "class")
	require.Len(t, got, 4)
	assert.Equal(t, KindCategory, got[0].Kind)
	assert.Equal(t, "2 topics", got[0].Meta)
	assert.Equal(t, api.ID("t2"), got[0].TopicID)
	assert.Equal(t, api.ID("t2"), got[1].ID)
	assert.Equal(t, api.ID("t1"), got[2].ID)
	assert.Equal(t, KindSection, got[3].Kind)
	assert.Equal(t, "In topic: Class", got[3].Meta)
	assert.Equal(t, "Class", got[3].TopicTitle)
}

func TestLocalSubsequenceMatch(t *testing.T) {
	ds := Dataset{Topics: []api.Topic{{ID: "t", Title: "OOP Concepts"}}}
	assert.Len(t, Local(ds, "oopc"), 1)
	assert.Empty(t, Local(ds, ""))
	assert.Empty(t, Local(ds, "zzz"))
}

func TestGroupResultsOrderAndIndex(t *testing.T) {
	results := []Result{
		{Kind: KindSection, ID: "s"},
		{Kind: KindCategory, ID: "c"},
		{Kind: KindTopic, ID: "t1"},
		{Kind: KindTopic, ID: "t2"},
	}

	groups := GroupResults(results)
	require.Len(t, groups, 3)
	assert.Equal(t, KindTopic, groups[0].Kind)
	assert.Equal(t, "Topics (2)", groups[0].Label)
	assert.Equal(t, 2, groups[0].Items[0].Index)
	assert.Equal(t, 3, groups[0].Items[1].Index)
	assert.Equal(t, KindCategory, groups[1].Kind)
	assert.Equal(t, 1, groups[1].Items[0].Index)
	assert.Equal(t, KindSection, groups[2].Kind)
	assert.Equal(t, 0, groups[2].Items[0].Index)
}

func TestGroupResultsSkipsEmpty(t *testing.T) {
	groups := GroupResults([]Result{{Kind: KindTopic, ID: "t"}})
	require.Len(t, groups, 1)
	assert.Nil(t, GroupResults(nil))
}

func TestResolveSectionBorrowsParentCategory(t *testing.T) {
	results := []Result{
		{Kind: KindTopic, ID: "t1", CategoryID: "c9"},
		{Kind: KindSection, ID: "s1", TopicID: "t1"},
		{Kind: KindSection, ID: "s2", TopicID: "t7"},
	}

	sel := resolve(results, results[1])
	assert.Equal(t, api.ID("t1"), sel.Topic)
	assert.Equal(t, api.ID("c9"), sel.Category)

	sel = resolve(results, results[2])
	assert.Equal(t, api.ID("t7"), sel.Topic)
	assert.Empty(t, sel.Category)
}

func TestResolveRemoteCategoryOnlyCloses(t *testing.T) {
	sel := resolve(nil, Result{Kind: KindCategory, ID: "c1"})
	assert.Empty(t, sel.Topic)

	sel = resolve(nil, Result{Kind: KindCategory, ID: "c1", TopicID: "t1"})
	assert.Equal(t, api.ID("t1"), sel.Topic)
	assert.Equal(t, api.ID("c1"), sel.Category)
}
