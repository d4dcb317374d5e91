package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/site"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [slug]",
	Short: "Read a post",
	Long:  `Read a post by its slug. Outputs the raw Markdown body by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cfg.service()
		if err != nil {
			return err
		}

		post, err := svc.GetPost(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", args[0], err)
		}

		if readJSON {
			out := site.NewPostJSON(post)
			out.Content = post.Content
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		}

		fmt.Fprint(cmd.OutOrStdout(), post.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
