package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate every content file and report the ones that are skipped",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cfg.service()
		if err != nil {
			return err
		}

		snap, err := svc.Scan(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range snap.Problems {
			kind := "malformed"
			if errors.Is(p, core.ErrDuplicateSlug) {
				kind = "duplicate"
			}
			fmt.Fprintf(out, "%-9s %s: %v\n", kind, p.Path, p.Err)
		}
		fmt.Fprintf(out, "%d posts, %d hidden, %d problems\n", len(snap.Posts), snap.Hidden, len(snap.Problems))

		if len(snap.Problems) > 0 {
			return fmt.Errorf("%d content files have problems", len(snap.Problems))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
