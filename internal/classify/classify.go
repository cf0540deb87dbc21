package classify

import (
	"bytes"
	"path/filepath"
	"strings"

	"curator/internal/taxonomy"
)

// Options tunes what evidence the classifier inspects.
type Options struct {
	// ContentWindowBytes bounds how much content participates in substring
	// matching. Zero means the whole file.
	ContentWindowBytes int
	// MatchContent enables substring matching against raw content bytes.
	MatchContent bool
	// MatchTags enables exact matching against parsed nuclei info.tags.
	MatchTags bool
}

// Classifier decides categories for templates against a fixed taxonomy.
// It is safe for concurrent use: the taxonomy is read-only and Classify
// keeps no state between calls.
type Classifier struct {
	tax  *taxonomy.Taxonomy
	opts Options
}

// New constructs a classifier for the given taxonomy.
func New(tax *taxonomy.Taxonomy, opts Options) *Classifier {
	return &Classifier{tax: tax, opts: opts}
}

// Classify returns the category for a template identified by its
// repo-relative path and raw content. The first category in taxonomy order
// with any matching keyword wins; an unmatched template resolves to
// taxonomy.Other. Classification never fails.
func (c *Classifier) Classify(relPath string, content []byte) string {
	haystackPath := strings.ToLower(filepath.ToSlash(relPath))

	var tags map[string]struct{}
	if c.opts.MatchTags {
		tags = parseTags(content)
	}

	var haystackContent []byte
	if c.opts.MatchContent && len(content) > 0 {
		window := content
		if c.opts.ContentWindowBytes > 0 && len(window) > c.opts.ContentWindowBytes {
			window = window[:c.opts.ContentWindowBytes]
		}
		haystackContent = bytes.ToLower(window)
	}

	for _, cat := range c.tax.Categories() {
		for _, keyword := range cat.Keywords {
			if keyword == "" {
				continue
			}
			if _, ok := tags[keyword]; ok {
				return cat.Name
			}
			if strings.Contains(haystackPath, keyword) {
				return cat.Name
			}
			if len(haystackContent) > 0 && bytes.Contains(haystackContent, []byte(keyword)) {
				return cat.Name
			}
		}
	}
	return taxonomy.Other
}
