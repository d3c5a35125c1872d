package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/matching"
	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/testhelpers"
)

type fakeSigner struct {
	fail map[string]bool
}

func (f fakeSigner) PresignURL(_ context.Context, key string) (string, error) {
	if f.fail[key] {
		return "", errors.New("presign failed")
	}
	return "https://storage.example.com/signed/" + key, nil
}

func seedRecipes(t *testing.T, db *gorm.DB) {
	t.Helper()
	recipes := []models.Recipe{
		{
			Name:             "Chicken Stir Fry",
			Image:            "recipes/stir-fry.jpg",
			ProteinTags:      models.StringArray{"chicken"},
			VeggieTags:       models.StringArray{"pepper", "onion"},
			HerbTags:         models.StringArray{"ginger"},
			RequiredCookware: models.StringArray{"wok"},
		},
		{
			Name:             "Beef Tacos",
			Image:            "https://cdn.example.com/tacos.jpg",
			ProteinTags:      models.StringArray{"beef"},
			VeggieTags:       models.StringArray{"onion", "tomato"},
			HerbTags:         models.StringArray{"cilantro"},
			RequiredCookware: models.StringArray{"skillet"},
		},
		{
			Name:             "Chicken Tacos",
			Image:            "recipes/broken.jpg",
			ProteinTags:      models.StringArray{"chicken"},
			VeggieTags:       models.StringArray{"onion", "tomato"},
			HerbTags:         models.StringArray{"cilantro"},
			RequiredCookware: models.StringArray{"skillet"},
		},
	}
	for i := range recipes {
		require.NoError(t, db.Create(&recipes[i]).Error)
	}
}

func TestListRecipes(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)

	svc := service.NewRecipeService(db, fakeSigner{fail: map[string]bool{"recipes/broken.jpg": true}}, zap.NewNop())
	recipes, err := svc.ListRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 3)

	images := map[string]string{}
	for _, r := range recipes {
		images[r.Name] = r.Image
	}
	assert.Equal(t, "https://storage.example.com/signed/recipes/stir-fry.jpg", images["Chicken Stir Fry"])
	assert.Equal(t, "https://cdn.example.com/tacos.jpg", images["Beef Tacos"])
	assert.Equal(t, "recipes/broken.jpg", images["Chicken Tacos"])
}

func TestListRecipesWithoutStorage(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)

	svc := service.NewRecipeService(db, nil, zap.NewNop())
	recipes, err := svc.ListRecipes(context.Background())
	require.NoError(t, err)
	for _, r := range recipes {
		assert.NotContains(t, r.Image, "signed")
	}
}

func TestMatchRecipes(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)
	svc := service.NewRecipeService(db, nil, zap.NewNop())

	matched, err := svc.MatchRecipes(context.Background(), matching.Selection{
		Proteins: []string{"chicken"},
		Veggies:  []string{"onion", "tomato"},
	})
	require.NoError(t, err)
	require.Len(t, matched, 3)

	// Chicken Tacos: (40 + 30) / 70; Chicken Stir Fry: (40 + 15) / 70; Beef Tacos: 30 / 70
	assert.Equal(t, "Chicken Tacos", matched[0].Name)
	assert.Equal(t, 100, matched[0].Match)
	assert.Equal(t, "Chicken Stir Fry", matched[1].Name)
	assert.Equal(t, 79, matched[1].Match)
	assert.Equal(t, "Beef Tacos", matched[2].Name)
	assert.Equal(t, 43, matched[2].Match)
}

func TestMatchRecipesDropsWeakMatches(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)
	svc := service.NewRecipeService(db, nil, zap.NewNop())

	// beef alone scores 0 on the chicken recipes and 100 on Beef Tacos
	matched, err := svc.MatchRecipes(context.Background(), matching.Selection{Proteins: []string{"beef"}})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Beef Tacos", matched[0].Name)
}

func TestMatchRecipesSkipsRecipesWithoutSelectedTags(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	require.NoError(t, db.Create(&models.Recipe{
		Name:       "Tomato Basil Pasta",
		VeggieTags: models.StringArray{"tomato", "garlic"},
		HerbTags:   models.StringArray{"basil"},
	}).Error)
	svc := service.NewRecipeService(db, nil, zap.NewNop())

	matched, err := svc.MatchRecipes(context.Background(), matching.Selection{
		Proteins: []string{"chicken"},
		Veggies:  []string{"tomato", "garlic"},
		Herbs:    []string{"basil"},
	})
	require.NoError(t, err)
	assert.Empty(t, matched)

	matched, err = svc.MatchRecipes(context.Background(), matching.Selection{
		Veggies: []string{"tomato", "garlic"},
		Herbs:   []string{"basil"},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, 100, matched[0].Match)
}

func TestMatchRecipesEmptySelection(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)
	svc := service.NewRecipeService(db, nil, zap.NewNop())

	matched, err := svc.MatchRecipes(context.Background(), matching.Selection{})
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestSeedRecipesSkipsExistingNames(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	seedRecipes(t, db)
	svc := service.NewRecipeService(db, nil, zap.NewNop())

	added, err := svc.SeedRecipes(context.Background(), []models.Recipe{
		{Name: "Beef Tacos", ProteinTags: models.StringArray{"beef"}},
		{Name: "Mushroom Risotto", VeggieTags: models.StringArray{"mushroom"}, RequiredCookware: models.StringArray{"pot"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	recipes, err := svc.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, recipes, 4)
}
