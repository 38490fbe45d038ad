package api

import "context"

// GetAllTopics lists topics across every category.
func (c *Client) GetAllTopics(ctx context.Context) ([]Topic, error) {
	data, err := c.get(ctx, "/topics")
	if err != nil {
		return nil, err
	}
	return decodeList[Topic](data)
}

// GetTopicsByCategory lists the topics of one category.
func (c *Client) GetTopicsByCategory(ctx context.Context, categoryID ID) ([]Topic, error) {
	data, err := c.get(ctx, buildQuery("/topics", QueryParams{"category_id": string(categoryID)}))
	if err != nil {
		return nil, err
	}
	return decodeList[Topic](data)
}

// GetTopic fetches one topic with its sections.
func (c *Client) GetTopic(ctx context.Context, topicID ID) (*TopicDetail, error) {
	data, err := c.get(ctx, "/topics/"+escapeID(topicID))
	if err != nil {
		return nil, err
	}
	detail, err := decodeOne[TopicDetail](data)
	if err != nil {
		return nil, err
	}
	if detail.Sections == nil {
		detail.Sections = []Section{}
	}
	return detail, nil
}

// GetRelatedTopics lists topics related to topicID. Older backends only expose
// /topics/<id>/related, which is tried when /related-topics/<id> is missing.
func (c *Client) GetRelatedTopics(ctx context.Context, topicID ID) ([]Topic, error) {
	data, err := c.get(ctx, "/related-topics/"+escapeID(topicID))
	if err != nil {
		if KindOf(err) != KindNotFound {
			return nil, err
		}
		data, err = c.get(ctx, "/topics/"+escapeID(topicID)+"/related")
		if err != nil {
			return nil, err
		}
	}
	return decodeList[Topic](data)
}
