package report

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CategoryCount is one row of the summary.
type CategoryCount struct {
	Name    string
	Count   int
	Percent float64
}

// Summary is the structured result of a consolidation run.
type Summary struct {
	Scanned    int
	Duplicates int
	Surviving  int
	Errors     int
	// Categories are sorted by descending count, then name, for reporting.
	Categories []CategoryCount
}

// Build assembles a summary from per-category counts and run totals.
func Build(counts map[string]int, scanned, duplicates, errors int) Summary {
	surviving := 0
	for _, count := range counts {
		surviving += count
	}

	categories := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		percent := 0.0
		if surviving > 0 {
			percent = roundPercent(float64(count) / float64(surviving) * 100)
		}
		categories = append(categories, CategoryCount{Name: name, Count: count, Percent: percent})
	}
	sort.Slice(categories, func(a, b int) bool {
		if categories[a].Count != categories[b].Count {
			return categories[a].Count > categories[b].Count
		}
		return categories[a].Name < categories[b].Name
	})

	return Summary{
		Scanned:    scanned,
		Duplicates: duplicates,
		Surviving:  surviving,
		Errors:     errors,
		Categories: categories,
	}
}

// Check verifies the summary's arithmetic invariants.
func (s Summary) Check() error {
	total := 0
	percentSum := 0.0
	for _, cat := range s.Categories {
		total += cat.Count
		percentSum += cat.Percent
	}
	if total != s.Surviving {
		return fmt.Errorf("category counts sum to %d, surviving total is %d", total, s.Surviving)
	}
	if s.Surviving+s.Duplicates+s.Errors != s.Scanned {
		return fmt.Errorf("surviving %d + duplicates %d + errors %d != scanned %d",
			s.Surviving, s.Duplicates, s.Errors, s.Scanned)
	}
	// Each row rounds to one decimal place, so allow 0.05% of drift per row.
	if s.Surviving > 0 {
		tolerance := 0.05 * float64(len(s.Categories))
		if math.Abs(percentSum-100) > tolerance {
			return fmt.Errorf("percentages sum to %.2f%%, expected 100%% within %.2f", percentSum, tolerance)
		}
	}
	return nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatCount renders n with thousands separators for human-facing output.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
