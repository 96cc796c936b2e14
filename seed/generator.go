package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"readly/domain"
)

// Config holds the knobs of a demo-data run. All fields have working
// defaults, see DefaultConfig.
type Config struct {
	Users        int     // number of demo users
	Seed         int64   // random seed, the whole run is a function of it
	AvatarDir    string  // directory with avatar images, may be empty
	CoverDir     string  // directory with cover images, may be empty
	PopularShare float64 // fraction of articles given boosted interactions
	Buckets      int     // bucket count for the timestamp spreader
	Year         int     // calendar year the timestamps are spread across
}

// DefaultConfig returns the default demo-data configuration.
func DefaultConfig() Config {
	return Config{
		Users:        100,
		Seed:         42,
		PopularShare: 0.25,
		Buckets:      DefaultBuckets,
		Year:         time.Now().UTC().Year() - 1,
	}
}

// Stats sums up what a run created or reused.
type Stats struct {
	Users     int
	Follows   int
	Articles  int
	Likes     int
	Comments  int
	Favorites int
}

// Generator populates the store with a statistically plausible social
// graph: users with profiles, a follow network, articles with tags and
// covers, and interaction volume skewed towards a random popular subset.
//
// The whole run executes inside a single transaction. A failure during
// entity creation rolls everything back; only individual timestamp
// backfills are best-effort and merely logged. Re-running against a
// non-empty store is idempotent for everything keyed by a natural key
// (users by username, tags by name, follows, likes and favorites by their
// unique pairs).
type Generator struct {
	db     *gorm.DB
	images domain.ImageService
}

// NewGenerator returns an instance of Generator.
func NewGenerator(db *gorm.DB, images domain.ImageService) *Generator {
	return &Generator{
		db:     db,
		images: images,
	}
}

// tagPool is the fixed set of topical tags ensured by every run.
var tagPool = []string{
	"tech", "ios", "design", "psychology", "business",
	"inspiration", "books", "sport", "music", "photo",
}

// titlePool provides the leading word of generated article titles.
var titlePool = []string{"Advice", "Ideas", "Experience", "Opinion", "Review"}

// commentPool is the fixed phrase pool generated comments draw from.
var commentPool = []string{
	"Great article, thanks!",
	"Don't agree with everything, but interesting.",
	"Could you add more examples?",
	"This helped me in a project.",
	"Great thought!",
	"Debatable, but okay.",
	"Short and to the point.",
	"Awesome, waiting for more!",
}

// Run executes a demo-data run with the given configuration.
func (g *Generator) Run(cfg Config) (*Stats, error) {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	spreader := NewSpreader(cfg.Year, cfg.Buckets, rnd)

	avatarFiles := listFiles(cfg.AvatarDir)
	coverFiles := listFiles(cfg.CoverDir)

	stats := &Stats{}
	err := g.db.Transaction(func(tx *gorm.DB) error {
		tags, err := g.ensureTags(tx)
		if err != nil {
			return err
		}

		users, err := g.createUsers(tx, rnd, spreader, cfg.Users, avatarFiles)
		if err != nil {
			return err
		}
		stats.Users = len(users)
		log.Printf("[seed] users prepared: %d", len(users))

		follows, err := g.createFollows(tx, rnd, spreader, users)
		if err != nil {
			return err
		}
		stats.Follows = follows
		log.Printf("[seed] follows ensured: %d", follows)

		articles, err := g.createArticles(tx, rnd, spreader, users, tags, coverFiles)
		if err != nil {
			return err
		}
		stats.Articles = len(articles)
		log.Printf("[seed] articles created: %d", len(articles))

		if err := g.createInteractions(tx, rnd, spreader, users, articles, cfg.PopularShare, stats); err != nil {
			return err
		}
		log.Printf("[seed] interactions - likes: %d, comments: %d, favorites: %d",
			stats.Likes, stats.Comments, stats.Favorites)

		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ensureTags makes sure the fixed tag pool exists, reusing tags by name.
func (g *Generator) ensureTags(tx *gorm.DB) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(tagPool))
	for _, name := range tagPool {
		var tag domain.Tag
		if err := tx.Where(domain.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// createUsers creates or reuses n deterministically named users, ensures
// each has a Profile, and assigns an avatar to roughly 60% of them.
func (g *Generator) createUsers(tx *gorm.DB, rnd *rand.Rand, spreader *Spreader, n int, avatarFiles []string) ([]domain.User, error) {
	// One shared hash, hashing per user would dominate the runtime.
	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		username := fmt.Sprintf("user%03d", i)
		var user domain.User
		err := tx.Where(domain.User{Username: username}).Attrs(domain.User{
			FirstName:    fmt.Sprintf("User%d", i),
			LastName:     "Demo",
			Email:        username + "@example.local",
			PasswordHash: string(hash),
		}).FirstOrCreate(&user).Error
		if err != nil {
			return nil, err
		}
		backfillCreatedAt(tx, &domain.User{}, user.ID, spreader.Next())

		var profile domain.Profile
		if err := tx.Where(domain.Profile{UserID: user.ID}).FirstOrCreate(&profile).Error; err != nil {
			return nil, err
		}
		if len(avatarFiles) > 0 && rnd.Float64() < 0.6 && profile.Avatar == "" {
			path := avatarFiles[rnd.Intn(len(avatarFiles))]
			img, err := g.storeAsset(domain.OwnerTypeAvatar, user.ID, path)
			if err != nil {
				return nil, err
			}
			profile.Avatar = img.Path()
			if err := tx.Save(&profile).Error; err != nil {
				return nil, err
			}
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollows builds the follow network: every user follows 5 to 20
// random distinct other users, never themselves. Existing edges are reused.
func (g *Generator) createFollows(tx *gorm.DB, rnd *rand.Rand, spreader *Spreader, users []domain.User) (int, error) {
	count := 0
	for ui := range users {
		k := 5 + rnd.Intn(16)
		for _, ci := range sampleOthers(rnd, len(users), ui, k) {
			follow := domain.Follow{
				FollowerID: users[ui].ID,
				FollowedID: users[ci].ID,
			}
			result := tx.Where(domain.Follow{
				FollowerID: follow.FollowerID,
				FollowedID: follow.FollowedID,
			}).FirstOrCreate(&follow)
			if result.Error != nil {
				return 0, result.Error
			}
			if result.RowsAffected > 0 {
				backfillCreatedAt(tx, &domain.Follow{}, follow.ID, spreader.Next())
			}
			count++
		}
	}
	return count, nil
}

// createArticles creates 8 articles per user with random authors, templated
// placeholder content, 1-3 tags from the pool and a cover for roughly 80%.
func (g *Generator) createArticles(tx *gorm.DB, rnd *rand.Rand, spreader *Spreader, users []domain.User, tags []domain.Tag, coverFiles []string) ([]domain.Article, error) {
	target := len(users) * 8
	articles := make([]domain.Article, 0, target)
	for i := 0; i < target; i++ {
		author := users[rnd.Intn(len(users))]
		topic := tagPool[rnd.Intn(len(tagPool))]
		article := domain.Article{
			AuthorID: author.ID,
			Title:    fmt.Sprintf("%s #%d", titlePool[rnd.Intn(len(titlePool))], i+1),
			Content: strings.Join([]string{
				"## Section heading",
				"Some text with thoughts and observations.",
				"- a list item\n- another item",
				"Tags and direction: " + topic,
			}, "\n\n"),
		}
		if err := tx.Omit("Tags", "Comments").Create(&article).Error; err != nil {
			return nil, err
		}
		backfillCreatedAt(tx, &domain.Article{}, article.ID, spreader.Next())

		if len(coverFiles) > 0 && rnd.Float64() < 0.8 {
			path := coverFiles[rnd.Intn(len(coverFiles))]
			img, err := g.storeAsset(domain.OwnerTypeCover, article.ID, path)
			if err != nil {
				return nil, err
			}
			if err := tx.Model(&article).UpdateColumn("cover", img.Path()).Error; err != nil {
				return nil, err
			}
		}

		for _, ti := range sample(rnd, len(tags), 1+rnd.Intn(3)) {
			if err := tx.Model(&article).Association("Tags").Append(&tags[ti]); err != nil {
				return nil, err
			}
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// createInteractions generates likes, comments and favorites for every
// article, with volume skewed towards a randomly chosen popular subset.
func (g *Generator) createInteractions(tx *gorm.DB, rnd *rand.Rand, spreader *Spreader, users []domain.User, articles []domain.Article, popularShare float64, stats *Stats) error {
	popularN := int(float64(len(articles)) * popularShare)
	popular := make(map[int]bool, popularN)
	if popularN > 0 {
		for _, ai := range sample(rnd, len(articles), popularN) {
			popular[articles[ai].ID] = true
		}
	}

	for ai := range articles {
		article := &articles[ai]
		isPopular := popular[article.ID]

		likeN := drawCount(rnd, isPopular, 30, 120, 0, 30)
		for _, ui := range sample(rnd, len(users), min(likeN, len(users))) {
			like := domain.Like{UserID: users[ui].ID, ArticleID: article.ID}
			result := tx.Where(domain.Like{
				UserID:    like.UserID,
				ArticleID: like.ArticleID,
			}).FirstOrCreate(&like)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				backfillCreatedAt(tx, &domain.Like{}, like.ID, spreader.Next())
				stats.Likes++
			}
		}

		commentN := drawCount(rnd, isPopular, 10, 30, 0, 10)
		for _, ui := range sample(rnd, len(users), min(commentN, len(users))) {
			comment := domain.Comment{
				ArticleID: article.ID,
				AuthorID:  users[ui].ID,
				Text:      commentPool[rnd.Intn(len(commentPool))],
			}
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			backfillCreatedAt(tx, &domain.Comment{}, comment.ID, spreader.Next())
			stats.Comments++
		}

		favN := drawCount(rnd, isPopular, 5, 20, 0, 5)
		for _, ui := range sample(rnd, len(users), min(favN, len(users))) {
			favorite := domain.Favorite{UserID: users[ui].ID, ArticleID: article.ID}
			result := tx.Where(domain.Favorite{
				UserID:    favorite.UserID,
				ArticleID: favorite.ArticleID,
			}).FirstOrCreate(&favorite)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				backfillCreatedAt(tx, &domain.Favorite{}, favorite.ID, spreader.Next())
				stats.Favorites++
			}
		}
	}
	return nil
}

// storeAsset copies an asset pool file into the image store.
func (g *Generator) storeAsset(ownerType string, ownerID int, path string) (*domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return g.images.CreateFromBytes(ownerType, ownerID, data, filepath.Base(path))
}

// backfillCreatedAt overrides a record's creation timestamp after the fact.
// A failed backfill must not abort the run, only the record keeps its
// original timestamp.
func backfillCreatedAt(tx *gorm.DB, model interface{}, id int, ts time.Time) {
	err := tx.Model(model).Where("id = ?", id).UpdateColumn("created_at", ts).Error
	if err != nil {
		log.Printf("[seed] timestamp backfill failed for id %d: %s", id, err)
	}
}

// drawCount draws an interaction count from the popular or the regular range.
func drawCount(rnd *rand.Rand, popular bool, popMin, popMax, min, max int) int {
	if popular {
		return popMin + rnd.Intn(popMax-popMin+1)
	}
	return min + rnd.Intn(max-min+1)
}

// sample returns k distinct indices out of [0, n), drawn without replacement.
func sample(rnd *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	return rnd.Perm(n)[:k]
}

// sampleOthers returns up to k distinct indices out of [0, n), never self.
func sampleOthers(rnd *rand.Rand, n, self, k int) []int {
	if k > n-1 {
		k = n - 1
	}
	out := make([]int, 0, k)
	for _, idx := range rnd.Perm(n) {
		if idx == self {
			continue
		}
		out = append(out, idx)
		if len(out) == k {
			break
		}
	}
	return out
}

// listFiles returns the regular files inside dir, or nil if the directory
// cannot be read. A missing asset pool just means no images get assigned.
func listFiles(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
