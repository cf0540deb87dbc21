package classify

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// templateInfo captures just enough of a nuclei template to read its tags.
// Tags appear either as a comma-separated string or as a list.
type templateInfo struct {
	Info struct {
		Tags any `yaml:"tags"`
	} `yaml:"info"`
}

// parseTags extracts lowercased info.tags from template content. Malformed
// or non-YAML content yields no tags rather than an error; classification
// then falls back to path and content matching.
func parseTags(content []byte) map[string]struct{} {
	if len(content) == 0 {
		return nil
	}
	var tmpl templateInfo
	if err := yaml.Unmarshal(content, &tmpl); err != nil {
		return nil
	}

	var raw []string
	switch tags := tmpl.Info.Tags.(type) {
	case string:
		raw = strings.Split(tags, ",")
	case []any:
		raw = make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				raw = append(raw, s)
			}
		}
	default:
		return nil
	}

	set := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
