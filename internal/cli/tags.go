package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wojciechkepka/notor/pkg/model"
)

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags",
	}
	cmd.AddCommand(
		newTagsListCmd(),
		newTagsAddCmd(),
		newTagsRmCmd(),
	)
	return cmd
}

func newTagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/tags/")
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}

			var tags []*model.Tag
			if err := json.Unmarshal(resp.Data, &tags); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(tags) == 0 {
				fmt.Println("No tags found.")
				return nil
			}

			fmt.Printf("%-6s  %s\n", "ID", "NAME")
			fmt.Printf("%-6s  %s\n", "----", "----")
			for _, t := range tags {
				fmt.Printf("%-6d  %s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func newTagsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/tags/", model.NewTag{Name: args[0]})
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			var tag model.Tag
			if err := json.Unmarshal(resp.Data, &tag); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			fmt.Printf("Created tag %d (%s)\n", tag.ID, tag.Name)
			return nil
		},
	}
}

func newTagsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tag ID %q", args[0])
			}
			if _, err := client.Delete(fmt.Sprintf("/api/v1/tags/%d/", id)); err != nil {
				return fmt.Errorf("delete tag: %w", err)
			}
			fmt.Printf("Deleted tag %d\n", id)
			return nil
		},
	}
}
