package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"readly/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &DB{Gorm: gormDB, ConnectionInfo: ":memory:"}
}

func TestAutoMigrateCreatesAllTables(t *testing.T) {
	db := testDB(t)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{
		"users", "profiles", "follows", "tags",
		"articles", "comments", "likes", "favorites", "article_tags",
	} {
		assert.True(t, db.Gorm.Migrator().HasTable(table), table)
	}
}

func TestDestructiveResetWipesData(t *testing.T) {
	db := testDB(t)
	require.NoError(t, AutoMigrate(db))

	user := domain.User{Username: "gone", Email: "gone@example.local", PasswordHash: "x"}
	require.NoError(t, db.Gorm.Create(&user).Error)

	require.NoError(t, DestructiveReset(db))

	// Tables exist again but carry no rows.
	assert.True(t, db.Gorm.Migrator().HasTable("users"))
	var n int64
	require.NoError(t, db.Gorm.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
