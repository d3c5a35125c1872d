// Package matching scores recipes against the ingredients and cookware a user
// has on hand.
//
// Each tag category carries a weight. Only categories the user selected
// something in take part in the score, so a user who picks only proteins is
// scored on proteins alone. Within a category the contribution is the share
// of the recipe's tags that the user has, times the weight. The final score is
// the rounded percentage of the achievable weight, always within [0, 100].
package matching

import (
	"math"
	"sort"
	"strings"
)

// Category weights
const (
	ProteinWeight  = 40
	VeggieWeight   = 30
	HerbWeight     = 15
	CookwareWeight = 15
)

// Threshold is the score a recipe must exceed to be returned by Rank
const Threshold = 40

// Tags are the tag lists of a single recipe
type Tags struct {
	Proteins []string
	Veggies  []string
	Herbs    []string
	Cookware []string
}

// Selection is what the user has on hand
type Selection struct {
	Proteins []string
	Veggies  []string
	Herbs    []string
	Cookware []string
}

// Empty reports whether nothing was selected in any category
func (s Selection) Empty() bool {
	return len(s.Proteins) == 0 && len(s.Veggies) == 0 && len(s.Herbs) == 0 && len(s.Cookware) == 0
}

// ParseList splits a comma-separated query value, trimming whitespace and
// dropping empty entries
func ParseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Score returns the weighted match percentage of a recipe for a selection
func Score(recipe Tags, sel Selection) int {
	var total, possible float64

	categories := []struct {
		selected []string
		tags     []string
		weight   float64
	}{
		{sel.Proteins, recipe.Proteins, ProteinWeight},
		{sel.Veggies, recipe.Veggies, VeggieWeight},
		{sel.Herbs, recipe.Herbs, HerbWeight},
		{sel.Cookware, recipe.Cookware, CookwareWeight},
	}

	for _, cat := range categories {
		if len(cat.selected) == 0 {
			continue
		}
		possible += cat.weight
		// no tags in a selected category contributes nothing; Rank drops such recipes
		if len(cat.tags) == 0 {
			continue
		}
		total += float64(countMatches(cat.tags, cat.selected)) / float64(len(cat.tags)) * cat.weight
	}

	if possible == 0 {
		return 0
	}
	return int(math.Round(total / possible * 100))
}

func countMatches(tags, selected []string) int {
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[s] = struct{}{}
	}
	n := 0
	for _, tag := range tags {
		if _, ok := set[tag]; ok {
			n++
		}
	}
	return n
}

// Ranked pairs an item with its match score
type Ranked[T any] struct {
	Item  T
	Score int
}

// Eligible reports whether the recipe has at least one tag in every category
// the user selected something in
func Eligible(recipe Tags, sel Selection) bool {
	pairs := [][2][]string{
		{sel.Proteins, recipe.Proteins},
		{sel.Veggies, recipe.Veggies},
		{sel.Herbs, recipe.Herbs},
		{sel.Cookware, recipe.Cookware},
	}
	for _, p := range pairs {
		if len(p[0]) > 0 && len(p[1]) == 0 {
			return false
		}
	}
	return true
}

// Rank scores every eligible item, keeps those scoring above Threshold and
// orders them by score, highest first. Items with equal scores keep their
// input order.
func Rank[T any](items []T, tags func(T) Tags, sel Selection) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	if sel.Empty() {
		return ranked
	}
	for _, item := range items {
		t := tags(item)
		if !Eligible(t, sel) {
			continue
		}
		score := Score(t, sel)
		if score > Threshold {
			ranked = append(ranked, Ranked[T]{Item: item, Score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
