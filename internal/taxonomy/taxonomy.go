package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Other is the reserved fallback category for templates matching no rule.
const Other = "other"

// Category pairs a name with its match keywords.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is the ordered category sequence loaded from the taxonomy
// document. It is read-only after load.
type Taxonomy struct {
	categories []Category
}

// Load reads and parses the taxonomy document at path. Any failure here is
// fatal to a run: classification cannot proceed without rules.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	tax, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return tax, nil
}

// Parse decodes a YAML taxonomy document, preserving document order. An
// empty document yields an empty taxonomy: every template then falls back to
// the "other" category.
func Parse(data []byte) (*Taxonomy, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Taxonomy{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("taxonomy root must be a mapping of category to keywords, got %s", nodeKind(root))
	}

	seen := make(map[string]struct{}, len(root.Content)/2)
	categories := make([]Category, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valueNode := root.Content[i+1]

		name := strings.ToLower(strings.TrimSpace(keyNode.Value))
		if name == "" {
			return nil, fmt.Errorf("line %d: category name must not be empty", keyNode.Line)
		}
		if name == Other {
			return nil, fmt.Errorf("line %d: category %q is reserved for the fallback bucket", keyNode.Line, Other)
		}
		if !ValidName(name) {
			return nil, fmt.Errorf("line %d: category %q must be a plain directory name (no path separators or dot segments)", keyNode.Line, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: duplicate category %q", keyNode.Line, name)
		}
		seen[name] = struct{}{}

		keywords, err := parseKeywords(valueNode)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		categories = append(categories, Category{Name: name, Keywords: keywords})
	}
	return &Taxonomy{categories: categories}, nil
}

func parseKeywords(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		keywords := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: keywords must be scalar strings", item.Line)
			}
			keyword := strings.ToLower(strings.TrimSpace(item.Value))
			if keyword == "" {
				continue
			}
			keywords = append(keywords, keyword)
		}
		return keywords, nil
	case yaml.ScalarNode:
		// A single keyword may be written without list syntax.
		keyword := strings.ToLower(strings.TrimSpace(node.Value))
		if keyword == "" {
			return nil, nil
		}
		return []string{keyword}, nil
	default:
		return nil, fmt.Errorf("line %d: keywords must be a list of strings", node.Line)
	}
}

// ValidName reports whether name can serve as a single directory component.
// Category names become library subdirectories, so separators and dot
// segments would escape the bucket layout.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unknown"
	}
}

// Categories returns the ordered category sequence.
func (t *Taxonomy) Categories() []Category {
	if t == nil {
		return nil
	}
	return t.categories
}

// Len returns the number of declared categories, excluding "other".
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// Names returns the category names in document order.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, t.Len())
	for _, cat := range t.Categories() {
		names = append(names, cat.Name)
	}
	return names
}
