package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/appdata"
)

// CategoriesCmd returns the `oophub categories` command.
func CategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List topic categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			categories, err := e.client.GetCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, "no categories found")
				return nil
			}
			for _, c := range categories {
				desc := ""
				if c.Description != "" {
					desc = " - " + c.Description
				}
				fmt.Fprintf(out, "  %s  %s%s\n", c.ID, c.Name, desc)
			}
			return nil
		},
	}
}

// TopicsCmd returns the `oophub topics` command.
func TopicsCmd() *cobra.Command {
	var (
		category string
		tags     []string
	)
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List topics, optionally for one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			var topics []api.Topic
			if category != "" {
				topics, err = e.client.GetTopicsByCategory(cmd.Context(), api.ID(category))
			} else {
				topics, err = e.client.GetAllTopics(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list topics: %w", err)
			}

			if len(tags) > 0 {
				selected, err := resolveTags(topics, tags)
				if err != nil {
					return err
				}
				topics = appdata.FilterByTags(topics, selected)
			}

			out := cmd.OutOrStdout()
			if len(topics) == 0 {
				fmt.Fprintln(out, "no topics found")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintf(out, "  %s  %s%s\n", t.ID, t.Title, formatTags(t.Tags))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only topics carrying every given tag (id, slug or name)")
	return cmd
}

// resolveTags maps tag ids, slugs or names onto the ids of tags present in topics.
func resolveTags(topics []api.Topic, names []string) ([]api.ID, error) {
	available := appdata.DeriveTags(topics)
	ids := make([]api.ID, 0, len(names))
	for _, name := range names {
		found := false
		for _, tag := range available {
			if string(tag.ID) == name || strings.EqualFold(tag.Slug, name) || strings.EqualFold(tag.Name, name) {
				ids = append(ids, tag.ID)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown tag %q", name)
		}
	}
	return ids, nil
}

func formatTags(tags []api.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return "  [" + strings.Join(names, ", ") + "]"
}

// TopicCmd returns the `oophub topic <id>` command.
func TopicCmd() *cobra.Command {
	var related bool
	cmd := &cobra.Command{
		Use:   "topic <id>",
		Short: "Show a topic with its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			id := api.ID(args[0])
			topic, err := e.client.GetTopic(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get topic %s: %w", id, err)
			}

			out := cmd.OutOrStdout()
			printTopic(out, topic)

			if !related {
				return nil
			}
			relatedTopics, err := e.client.GetRelatedTopics(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("related topics of %s: %w", id, err)
			}
			fmt.Fprintln(out, "\nrelated:")
			if len(relatedTopics) == 0 {
				fmt.Fprintln(out, "  none")
			}
			for _, t := range relatedTopics {
				fmt.Fprintf(out, "  %s  %s\n", t.ID, t.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&related, "related", "r", false, "also list related topics")
	return cmd
}

func printTopic(out io.Writer, topic *api.TopicDetail) {
	fmt.Fprintln(out, topic.Title)
	if topic.ShortDefinition != "" {
		fmt.Fprintln(out, topic.ShortDefinition)
	}
	if tags := formatTags(topic.Tags); tags != "" {
		fmt.Fprintln(out, strings.TrimSpace(tags))
	}
	for _, s := range api.SortSections(topic.Sections) {
		fmt.Fprintln(out)
		if s.Heading != "" {
			fmt.Fprintf(out, "## %s\n", s.Heading)
		}
		if s.Content != "" {
			fmt.Fprintln(out, s.Content)
		}
		if s.CodeSnippet != "" {
			fmt.Fprintf(out, "```%s\n%s\n```\n", s.Language, strings.TrimRight(s.CodeSnippet, "\n"))
		}
		if s.ImageURL != "" {
			fmt.Fprintf(out, "image: %s\n", s.ImageURL)
		}
	}
}
