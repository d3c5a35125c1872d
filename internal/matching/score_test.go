package matching

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		recipe Tags
		sel    Selection
		want   int
	}{
		{
			name:   "nothing selected",
			recipe: Tags{Proteins: []string{"chicken"}},
			sel:    Selection{},
			want:   0,
		},
		{
			name:   "protein only",
			recipe: Tags{Proteins: []string{"chicken", "beef"}},
			sel:    Selection{Proteins: []string{"chicken"}},
			want:   50,
		},
		{
			name: "every category",
			recipe: Tags{
				Proteins: []string{"chicken"},
				Veggies:  []string{"onion", "pepper"},
				Herbs:    []string{"basil"},
				Cookware: []string{"wok"},
			},
			sel: Selection{
				Proteins: []string{"chicken"},
				Veggies:  []string{"onion"},
				Herbs:    []string{"thyme"},
				Cookware: []string{"wok"},
			},
			want: 70,
		},
		{
			name:   "selected category without recipe tags scores zero there",
			recipe: Tags{Veggies: []string{"onion"}},
			sel:    Selection{Proteins: []string{"chicken"}, Veggies: []string{"onion"}},
			want:   43,
		},
		{
			name:   "duplicate recipe tags count each time",
			recipe: Tags{Proteins: []string{"chicken", "chicken", "beef"}},
			sel:    Selection{Proteins: []string{"chicken"}},
			want:   67,
		},
		{
			name:   "halves round up",
			recipe: Tags{Proteins: []string{"a", "b", "c", "d", "e", "f", "g", "h"}},
			sel:    Selection{Proteins: []string{"a"}},
			want:   13,
		},
		{
			name:   "matching is case sensitive",
			recipe: Tags{Herbs: []string{"Basil"}},
			sel:    Selection{Herbs: []string{"basil"}},
			want:   0,
		},
		{
			name:   "unselected categories are ignored",
			recipe: Tags{Proteins: []string{"tofu"}, Cookware: []string{"pan", "oven"}},
			sel:    Selection{Cookware: []string{"pan", "oven"}},
			want:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.recipe, tt.sel))
		})
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	vocab := []string{"chicken", "beef", "tofu", "onion", "pepper", "basil", "thyme", "wok", "pan"}
	pick := func(r *rand.Rand) []string {
		var out []string
		for _, v := range vocab {
			if r.Intn(3) == 0 {
				out = append(out, v)
			}
		}
		return out
	}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		recipe := Tags{Proteins: pick(r), Veggies: pick(r), Herbs: pick(r), Cookware: pick(r)}
		sel := Selection{Proteins: pick(r), Veggies: pick(r), Herbs: pick(r), Cookware: pick(r)}
		score := Score(recipe, sel)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestRank(t *testing.T) {
	type recipe struct {
		name     string
		proteins []string
	}
	recipes := []recipe{
		{"full", []string{"chicken"}},
		{"low", []string{"chicken", "beef", "pork", "lamb"}},
		{"also full", []string{"chicken", "chicken"}},
		{"half", []string{"chicken", "beef"}},
		{"none", []string{"beef"}},
	}
	sel := Selection{Proteins: []string{"chicken"}}

	ranked := Rank(recipes, func(r recipe) Tags { return Tags{Proteins: r.proteins} }, sel)

	require.Len(t, ranked, 3)
	assert.Equal(t, "full", ranked[0].Item.name)
	assert.Equal(t, "also full", ranked[1].Item.name)
	assert.Equal(t, "half", ranked[2].Item.name)
	assert.Equal(t, []int{100, 100, 50}, []int{ranked[0].Score, ranked[1].Score, ranked[2].Score})
}

func TestRankExcludesThresholdScore(t *testing.T) {
	// 2 of 5 proteins is exactly 40
	tags := Tags{Proteins: []string{"a", "b", "c", "d", "e"}}
	ranked := Rank([]Tags{tags}, func(t Tags) Tags { return t }, Selection{Proteins: []string{"a", "b"}})
	assert.Empty(t, ranked)
}

func TestRankDropsRecipesMissingASelectedCategory(t *testing.T) {
	noProtein := Tags{Veggies: []string{"onion"}, Herbs: []string{"basil"}}
	sel := Selection{Proteins: []string{"chicken"}, Veggies: []string{"onion"}, Herbs: []string{"basil"}}

	// scores 53 on its own, but has nothing to offer for the selected protein
	assert.Equal(t, 53, Score(noProtein, sel))
	assert.False(t, Eligible(noProtein, sel))
	assert.Empty(t, Rank([]Tags{noProtein}, func(t Tags) Tags { return t }, sel))

	// unselected categories may be empty
	veggiesOnly := Selection{Veggies: []string{"onion"}, Herbs: []string{"basil"}}
	assert.True(t, Eligible(noProtein, veggiesOnly))
	ranked := Rank([]Tags{noProtein}, func(t Tags) Tags { return t }, veggiesOnly)
	require.Len(t, ranked, 1)
	assert.Equal(t, 100, ranked[0].Score)
}

func TestRankWithEmptySelection(t *testing.T) {
	tags := Tags{Proteins: []string{"chicken"}}
	assert.Empty(t, Rank([]Tags{tags}, func(t Tags) Tags { return t }, Selection{}))
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"chicken", "beef"}, ParseList("chicken, beef"))
	assert.Equal(t, []string{"wok"}, ParseList(",wok,,"))
}

func TestSelectionEmpty(t *testing.T) {
	assert.True(t, Selection{}.Empty())
	assert.False(t, Selection{Herbs: []string{"basil"}}.Empty())
}
