package crud

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

func newFeedService(db *gorm.DB) *FeedService {
	return NewFeedService(db, NewFollowService(db))
}

func TestFeedPopularOrdersByLikesThenRecency(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	a5 := mustCreateArticle(t, db, author.ID, "five likes", base)
	a50 := mustCreateArticle(t, db, author.ID, "fifty likes", base.Add(time.Hour))
	a20 := mustCreateArticle(t, db, author.ID, "twenty likes", base.Add(2*time.Hour))
	mustLikeN(t, db, a5.ID, 5)
	mustLikeN(t, db, a50.ID, 50)
	mustLikeN(t, db, a20.ID, 20)

	feed, err := newFeedService(db).Compose(0, domain.SegmentPopular, 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 3)

	assert.Equal(t, a50.ID, feed.Articles[0].ID)
	assert.Equal(t, a20.ID, feed.Articles[1].ID)
	assert.Equal(t, a5.ID, feed.Articles[2].ID)

	// Like counts never increase from one item to the next.
	for i := 1; i < len(feed.Articles); i++ {
		assert.GreaterOrEqual(t, feed.Articles[i-1].LikeCount, feed.Articles[i].LikeCount)
	}
}

func TestFeedPopularTieBreaksByRecency(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := mustCreateArticle(t, db, author.ID, "older", base)
	newer := mustCreateArticle(t, db, author.ID, "newer", base.Add(time.Hour))
	mustLikeN(t, db, older.ID, 3)
	mustLikeN(t, db, newer.ID, 3)

	feed, err := newFeedService(db).Compose(0, domain.SegmentPopular, 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 2)
	assert.Equal(t, newer.ID, feed.Articles[0].ID)
	assert.Equal(t, older.ID, feed.Articles[1].ID)
}

func TestFeedAnonymousEqualsViewerWithoutFollows(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	loner := mustCreateUser(t, db, "loner")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateArticle(t, db, author.ID, fmt.Sprintf("article %d", i), base.Add(time.Duration(i)*time.Hour))
	}

	fs := newFeedService(db)
	anonymous, err := fs.Compose(0, domain.SegmentNew, 1)
	require.NoError(t, err)
	signedIn, err := fs.Compose(loner.ID, domain.SegmentNew, 1)
	require.NoError(t, err)

	require.Equal(t, len(anonymous.Articles), len(signedIn.Articles))
	for i := range anonymous.Articles {
		assert.Equal(t, anonymous.Articles[i].ID, signedIn.Articles[i].ID)
	}
}

func TestFeedFollowedAuthorsOnly(t *testing.T) {
	db := testDB(t)
	followed := mustCreateUser(t, db, "followed")
	stranger := mustCreateUser(t, db, "stranger")
	viewer := mustCreateUser(t, db, "viewer")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	wanted := mustCreateArticle(t, db, followed.ID, "from followed", base)
	mustCreateArticle(t, db, stranger.ID, "from stranger", base.Add(time.Hour))

	require.NoError(t, db.Create(&domain.Follow{FollowerID: viewer.ID, FollowedID: followed.ID}).Error)

	feed, err := newFeedService(db).Compose(viewer.ID, domain.SegmentNew, 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, wanted.ID, feed.Articles[0].ID)
}

func TestFeedTopicSegmentMatchesSubstringOnce(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// Both tags contain "tech", the article must still appear only once.
	doubly := mustCreateArticle(t, db, author.ID, "doubly tagged", base, "tech", "biotech")
	mustCreateArticle(t, db, author.ID, "off topic", base.Add(time.Hour), "music")

	feed, err := newFeedService(db).Compose(0, "tech", 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, doubly.ID, feed.Articles[0].ID)
}

func TestFeedTopicSegmentIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tagged := mustCreateArticle(t, db, author.ID, "loud tag", base, "TECHNOLOGY")

	feed, err := newFeedService(db).Compose(0, "tech", 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, tagged.ID, feed.Articles[0].ID)
}

func TestFeedUnknownSegmentBehavesLikeNew(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	older := mustCreateArticle(t, db, author.ID, "older", base)
	newer := mustCreateArticle(t, db, author.ID, "newer", base.Add(time.Hour))
	mustLikeN(t, db, older.ID, 10)

	fs := newFeedService(db)
	unknown, err := fs.Compose(0, "definitely-not-a-segment", 1)
	require.NoError(t, err)
	require.Len(t, unknown.Articles, 2)
	assert.Equal(t, newer.ID, unknown.Articles[0].ID)
	assert.Equal(t, older.ID, unknown.Articles[1].ID)
}

func TestFeedOutOfRangePageIsEmpty(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateArticle(t, db, author.ID, fmt.Sprintf("article %d", i), base.Add(time.Duration(i)*time.Hour))
	}

	feed, err := newFeedService(db).Compose(0, domain.SegmentNew, 999)
	require.NoError(t, err)
	assert.Empty(t, feed.Articles)
}

func TestFeedPageBelowOneFallsBackToFirst(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	mustCreateArticle(t, db, author.ID, "only one", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	feed, err := newFeedService(db).Compose(0, domain.SegmentNew, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, feed.Page)
	assert.Len(t, feed.Articles, 1)
}

func TestRecommendedCappedAtTenAndGlobal(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	viewer := mustCreateUser(t, db, "viewer")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		mustCreateArticle(t, db, author.ID, fmt.Sprintf("tagged %d", i),
			base.Add(time.Duration(i)*time.Hour), fmt.Sprintf("topic%d", i))
	}

	fs := newFeedService(db)
	recommended, err := fs.Recommended()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recommended), 10)

	// Newest first.
	for i := 1; i < len(recommended); i++ {
		assert.False(t, recommended[i].CreatedAt.After(recommended[i-1].CreatedAt))
	}

	// The recommendation pool ignores the viewer's follow graph. The viewer
	// follows nobody relevant, yet the side list is unchanged.
	feed, err := fs.Compose(viewer.ID, domain.SegmentNew, 1)
	require.NoError(t, err)
	assert.Equal(t, len(recommended), len(feed.Recommended))
}

// brokenFollowService fails every follow lookup.
type brokenFollowService struct {
	domain.FollowService
}

func (brokenFollowService) FollowedIDs(followerID int) ([]int, error) {
	return nil, errs.Errorf(errs.EINTERNAL, "follow lookup unavailable")
}

func TestFeedDegradesToGlobalWhenFollowLookupFails(t *testing.T) {
	db := testDB(t)
	viewer := mustCreateUser(t, db, "viewer")
	followed := mustCreateUser(t, db, "followed")
	stranger := mustCreateUser(t, db, "stranger")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	a1 := mustCreateArticle(t, db, followed.ID, "from followed", base)
	a2 := mustCreateArticle(t, db, stranger.ID, "from stranger", base.Add(time.Hour))
	require.NoError(t, NewFollowService(db).Create(&domain.Follow{
		FollowerID: viewer.ID,
		FollowedID: followed.ID,
	}))

	// A healthy lookup narrows the feed down to the followed author.
	feed, err := newFeedService(db).Compose(viewer.ID, domain.SegmentNew, 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, a1.ID, feed.Articles[0].ID)

	// A failing lookup falls back to the full pool without erroring.
	feed, err = NewFeedService(db, brokenFollowService{}).Compose(viewer.ID, domain.SegmentNew, 1)
	require.NoError(t, err)
	require.Len(t, feed.Articles, 2)
	assert.Equal(t, a2.ID, feed.Articles[0].ID)
	assert.Equal(t, a1.ID, feed.Articles[1].ID)
}
