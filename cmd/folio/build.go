package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/adapters/fs"
	source "github.com/aretw0/folio/pkg/adapters/lifecycle"
	"github.com/aretw0/folio/pkg/render"
	"github.com/aretw0/folio/pkg/site"
)

var (
	buildWatch bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the output directory",
	Long: `Render every visible post, the index, tag pages, posts.json, feed.xml and sitemap.xml
into the output directory. The directory is removed first.
With --watch, the site is rebuilt whenever a content file changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, svc, err := cfg.open()
		if err != nil {
			return err
		}
		renderer, err := cfg.renderer()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := build(ctx, cmd, svc, renderer); err != nil {
			return err
		}
		if !buildWatch {
			return nil
		}

		changes, err := repo.Watch(ctx, fs.WatchOptions{
			ErrorHandler: func(err error) {
				logger.Error("watcher failed", "error", err)
			},
		})
		if err != nil {
			return err
		}

		src := source.NewSource(changes)
		if err := src.Start(ctx); err != nil {
			return err
		}
		logger.Info("watching for changes", "root", cfg.Root)

		for ev := range src.Events() {
			logger.Info("rebuilding", "reason", ev.String())
			if err := build(ctx, cmd, svc, renderer); err != nil {
				if ctx.Err() != nil {
					break
				}
				logger.Error("build failed", "error", err)
			}
		}
		return nil
	},
}

func build(ctx context.Context, cmd *cobra.Command, src site.Source, renderer *render.Renderer) error {
	report, err := site.Build(ctx, src, renderer, cfg.site())
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "built %d posts, %d tags, %d files into %s in %s\n",
		report.Posts, report.Tags, report.Files, report.OutputDir, report.Duration.Round(time.Millisecond))
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("out", "public", "output directory, relative to the site directory")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild when content changes")
}
