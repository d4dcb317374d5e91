package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [slug]",
	Short: "Print the HTML body of a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cfg.service()
		if err != nil {
			return err
		}
		renderer, err := cfg.renderer()
		if err != nil {
			return err
		}

		post, err := svc.GetPost(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", args[0], err)
		}
		body, err := renderer.RenderPost(post)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
