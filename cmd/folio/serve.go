package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the preview server",
	Long: `Serve the site from the content root. Every request re-reads the posts,
so edits show up on reload. Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cfg.service()
		if err != nil {
			return err
		}
		renderer, err := cfg.renderer()
		if err != nil {
			return err
		}

		srv, err := site.NewServer(svc, renderer, cfg.site())
		if err != nil {
			return err
		}
		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":3000", "listen address")
}
