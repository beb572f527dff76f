package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wojciechkepka/notor/pkg/model"
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}
	cmd.AddCommand(
		newNotesListCmd(),
		newNotesGetCmd(),
		newNotesAddCmd(),
		newNotesRmCmd(),
		newNotesTagCmd(),
		newNotesUntagCmd(),
	)
	return cmd
}

func newNotesListCmd() *cobra.Command {
	var limit int
	var tagID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/notes/?limit=%d", limit)
			if tagID > 0 {
				path += fmt.Sprintf("&tag_id=%d", tagID)
			}
			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list notes: %w", err)
			}

			var notes []*model.Note
			if err := json.Unmarshal(resp.Data, &notes); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(notes) == 0 {
				fmt.Println("No notes found.")
				return nil
			}

			fmt.Printf("%-6s  %-17s  %s\n", "ID", "CREATED", "TITLE")
			fmt.Printf("%-6s  %-17s  %s\n", "----", "-------", "-----")
			for _, n := range notes {
				fmt.Printf("%-6d  %-17s  %s\n", n.ID, n.CreatedDatetime(), n.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum notes to list")
	cmd.Flags().Int64Var(&tagID, "tag", 0, "Only list notes carrying this tag ID")
	return cmd
}

func newNotesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note ID %q", args[0])
			}

			resp, err := client.Get(fmt.Sprintf("/api/v1/notes/%d/", id))
			if err != nil {
				return fmt.Errorf("get note: %w", err)
			}
			var note model.Note
			if err := json.Unmarshal(resp.Data, &note); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			tagResp, err := client.Get(fmt.Sprintf("/api/v1/notes/%d/tags", id))
			if err != nil {
				return fmt.Errorf("get note tags: %w", err)
			}
			var tags []*model.Tag
			if err := json.Unmarshal(tagResp.Data, &tags); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("ID:      %d\n", note.ID)
			fmt.Printf("Created: %s\n", note.CreatedDatetime())
			fmt.Printf("Title:   %s\n", note.Title)
			if len(tags) > 0 {
				fmt.Print("Tags:    ")
				for i, t := range tags {
					if i > 0 {
						fmt.Print(", ")
					}
					fmt.Print(t.Name)
				}
				fmt.Println()
			}
			fmt.Printf("\n%s\n", note.Content)
			return nil
		},
	}
}

func newNotesAddCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Post("/api/v1/notes/", model.NewNote{Title: args[0], Content: content})
			if err != nil {
				return fmt.Errorf("create note: %w", err)
			}
			var note model.Note
			if err := json.Unmarshal(resp.Data, &note); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			fmt.Printf("Created note %d\n", note.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Note body")
	return cmd
}

func newNotesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note ID %q", args[0])
			}
			if _, err := client.Delete(fmt.Sprintf("/api/v1/notes/%d/", id)); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}
			fmt.Printf("Deleted note %d\n", id)
			return nil
		},
	}
}

func newNotesTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <id> <name>",
		Short: "Attach a tag to a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note ID %q", args[0])
			}
			if _, err := client.Post(fmt.Sprintf("/api/v1/notes/%d/tags/%s", id, args[1]), nil); err != nil {
				return fmt.Errorf("tag note: %w", err)
			}
			fmt.Printf("Tagged note %d with %q\n", id, args[1])
			return nil
		},
	}
}

func newNotesUntagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <id> <name>",
		Short: "Remove a tag from a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid note ID %q", args[0])
			}
			if _, err := client.Delete(fmt.Sprintf("/api/v1/notes/%d/tags/%s", id, args[1])); err != nil {
				return fmt.Errorf("untag note: %w", err)
			}
			fmt.Printf("Removed tag %q from note %d\n", args[1], id)
			return nil
		},
	}
}
