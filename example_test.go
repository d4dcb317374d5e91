package folio_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/folio"
)

// Example_basic writes two posts and lists them newest first.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "folio-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	files := map[string]string{
		"first.md":  "---\ntitle: First\ndate: 2023-01-01\n---\nHello.\n",
		"second.md": "---\ntitle: Second\ndate: 2023-02-01\ntags: [go]\n---\nAgain.\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			log.Fatal(err)
		}
	}

	svc, err := folio.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	posts, err := svc.ListPosts(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range posts {
		fmt.Println(p.Slug, p.Date.Format("2006-01-02"), p.Tags)
	}

	// Output:
	// second 2023-02-01 [go]
	// first 2023-01-01 []
}
