package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/config"
	"github.com/pageza/porkchop/backend/internal/models"
)

func TestNewSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "porkchop.db"),
	}

	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	recipe := models.Recipe{
		Name:        "Chicken Stir Fry",
		ProteinTags: models.StringArray{"chicken"},
		VeggieTags:  models.StringArray{"pepper", "onion"},
		Steps:       models.StringArray{"Chop", "Fry"},
	}
	require.NoError(t, db.Create(&recipe).Error)
	assert.NotEmpty(t, recipe.ID)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, recipe.VeggieTags, loaded.VeggieTags)
	assert.Empty(t, loaded.HerbTags)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, HealthCheck(ctx, db))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewRedisClientNotConfigured(t *testing.T) {
	_, err := NewRedisClient(&config.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrRedisNotConfigured)
}

func TestSubscriptionUserIsUnique(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "unique.db")}
	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	first := models.Subscription{UserID: "user-1", PlanID: models.PlanPro, Status: "active", StartDate: time.Now()}
	require.NoError(t, db.Create(&first).Error)

	second := models.Subscription{UserID: "user-1", PlanID: models.PlanFamily, Status: "active", StartDate: time.Now()}
	assert.Error(t, db.Create(&second).Error)
}
