// Package folio is the Composition Root for the folio blog pipeline.
//
// It connects the core post model (pkg/core) with the filesystem adapter
// (pkg/adapters/fs) using the Hexagonal Architecture pattern.
//
// A site is a directory of Markdown and MDX files, each opening with a YAML
// (---) or TOML (+++) front-matter block. folio discovers them, validates the
// front matter and orders the visible posts newest first. Rendering lives in
// pkg/render, the static build and preview server in pkg/site.
//
// Features:
//
//   - **Stateless Reads**: every call re-reads the content root; there is no cache to invalidate.
//   - **Nested Slugs**: posts/2023/hello.md is served as posts/2023/hello.
//   - **Problem Reports**: malformed files are skipped and reported, never fatal.
//   - **Math**: $inline$ and $$display$$ TeX pass through to KaTeX untouched.
//
// Usage:
//
//	svc, err := folio.New("./content", folio.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	posts, err := svc.ListPosts(ctx)
package folio
