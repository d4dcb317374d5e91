package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/site"
)

var (
	listJSON     bool
	listTag      string
	listCategory string
	listPinned   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible posts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cfg.service()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var posts []core.Post
		switch {
		case listTag != "":
			posts, err = svc.PostsByTag(ctx, listTag)
		case listCategory != "":
			posts, err = svc.PostsByCategory(ctx, listCategory)
		case listPinned:
			posts, err = svc.PinnedPosts(ctx)
		default:
			posts, err = svc.ListPosts(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(site.NewPostList(posts))
		}

		out := cmd.OutOrStdout()
		for _, p := range posts {
			line := fmt.Sprintf("%s  %-30s %s", p.Date.Format("2006-01-02"), p.Slug, p.Title)
			if len(p.Tags) > 0 {
				line += "  [" + strings.Join(p.Tags, ", ") + "]"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only posts with this tag (case-insensitive)")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only posts in this category (case-insensitive)")
	listCmd.Flags().BoolVar(&listPinned, "pinned", false, "Only pinned posts")
}
