package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"readly/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Profile{}, &domain.Follow{},
		&domain.Article{}, &domain.Tag{}, &domain.Comment{},
		&domain.Like{}, &domain.Favorite{},
	))
	return db
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Users = 8
	cfg.Buckets = 10
	cfg.Year = 2023
	return cfg
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestGeneratorIsDeterministic(t *testing.T) {
	cfg := testConfig()

	dbA := testDB(t)
	statsA, err := NewGenerator(dbA, nil).Run(cfg)
	require.NoError(t, err)

	dbB := testDB(t)
	statsB, err := NewGenerator(dbB, nil).Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, statsA, statsB)
	for _, model := range []interface{}{
		&domain.User{}, &domain.Follow{}, &domain.Article{},
		&domain.Like{}, &domain.Comment{}, &domain.Favorite{},
	} {
		assert.Equal(t, count(t, dbA, model), count(t, dbB, model))
	}
}

func TestGeneratorShape(t *testing.T) {
	cfg := testConfig()
	db := testDB(t)

	stats, err := NewGenerator(db, nil).Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Users, stats.Users)
	assert.Equal(t, int64(cfg.Users), count(t, db, &domain.User{}))
	assert.Equal(t, int64(cfg.Users*8), count(t, db, &domain.Article{}))
	assert.Equal(t, int64(len(tagPool)), count(t, db, &domain.Tag{}))

	// Every user gets exactly one profile.
	assert.Equal(t, int64(cfg.Users), count(t, db, &domain.Profile{}))

	var selfFollows int64
	require.NoError(t, db.Model(&domain.Follow{}).
		Where("follower_id = followed_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	// Every article carries between 1 and 3 tags.
	var articles []domain.Article
	require.NoError(t, db.Preload("Tags").Find(&articles).Error)
	for _, a := range articles {
		assert.GreaterOrEqual(t, len(a.Tags), 1, "article %d", a.ID)
		assert.LessOrEqual(t, len(a.Tags), 3, "article %d", a.ID)
	}
}

func TestGeneratorSpreadsTimestampsAcrossYear(t *testing.T) {
	cfg := testConfig()
	db := testDB(t)

	_, err := NewGenerator(db, nil).Run(cfg)
	require.NoError(t, err)

	var users []domain.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.Equal(t, cfg.Year, u.CreatedAt.UTC().Year(), "user %s", u.Username)
	}

	var articles []domain.Article
	require.NoError(t, db.Find(&articles).Error)
	for _, a := range articles {
		assert.Equal(t, cfg.Year, a.CreatedAt.UTC().Year(), "article %d", a.ID)
	}
}

func TestGeneratorRerunReusesNaturalKeys(t *testing.T) {
	cfg := testConfig()
	db := testDB(t)
	gen := NewGenerator(db, nil)

	_, err := gen.Run(cfg)
	require.NoError(t, err)

	users := count(t, db, &domain.User{})
	tags := count(t, db, &domain.Tag{})
	follows := count(t, db, &domain.Follow{})
	articles := count(t, db, &domain.Article{})

	_, err = gen.Run(cfg)
	require.NoError(t, err)

	// Users, tags and the follow network are keyed naturally and reused.
	assert.Equal(t, users, count(t, db, &domain.User{}))
	assert.Equal(t, tags, count(t, db, &domain.Tag{}))
	assert.Equal(t, follows, count(t, db, &domain.Follow{}))
	assert.Equal(t, users, count(t, db, &domain.Profile{}))

	// Articles have no natural key, a re-run adds a fresh batch.
	assert.Equal(t, articles*2, count(t, db, &domain.Article{}))
}
