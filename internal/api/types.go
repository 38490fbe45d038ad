package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a resource identifier. The backend may send ids as JSON numbers or
// strings; both decode to the same ID.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// --- Catalog ---

// Category is a top-level grouping of topics.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Tag labels topics; topics are AND-filtered by tag.
type Tag struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// Topic is a learning unit belonging to exactly one category.
type Topic struct {
	ID              ID     `json:"id"`
	CategoryID      ID     `json:"category_id"`
	Title           string `json:"title"`
	ShortDefinition string `json:"short_definition,omitempty"`
	Tags            []Tag  `json:"tags"`
}

// HasTag reports whether the topic carries the tag id.
func (t Topic) HasTag(id ID) bool {
	for _, tag := range t.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// TopicDetail is a topic together with its content sections.
type TopicDetail struct {
	Topic
	Sections []Section `json:"sections"`
}

// Section is a content block within a topic. Sources do not guarantee order;
// use SortSections before rendering.
type Section struct {
	ID          ID     `json:"id"`
	TopicID     ID     `json:"topic_id"`
	OrderIndex  int    `json:"order_index"`
	Heading     string `json:"heading,omitempty"`
	Content     string `json:"content,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	CodeSnippet string `json:"code_snippet,omitempty"`
	Language    string `json:"language,omitempty"`
}

// --- Search ---

// SearchTopic is a topic hit from /search.
type SearchTopic struct {
	Topic
	CategoryName string   `json:"category_name,omitempty"`
	Score        *float64 `json:"score,omitempty"`
}

// SearchSection is a section hit from /search.
type SearchSection struct {
	Section
	TopicTitle string   `json:"topic_title,omitempty"`
	Score      *float64 `json:"score,omitempty"`
}

// SearchCategory is a category hit from /search.
type SearchCategory struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	TopicCount  int      `json:"topic_count"`
	Score       *float64 `json:"score,omitempty"`
}

// DisplayTitle prefers the search title and falls back to the category name.
func (c SearchCategory) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// SearchResponse groups heterogeneous hits by kind.
type SearchResponse struct {
	Topics     []SearchTopic    `json:"topics"`
	Sections   []SearchSection  `json:"sections"`
	Categories []SearchCategory `json:"categories"`
}
