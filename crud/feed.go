package crud

import (
	"strings"

	"gorm.io/gorm"

	"readly/domain"
)

// FeedService composes the home feed. It builds one query per request:
// candidate set, segment filter, per-article like and comment counts,
// ordering and pagination all run inside the database.
// It implements the domain.FeedService interface.
type FeedService struct {
	db *gorm.DB
	fs domain.FollowService
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB, fs domain.FollowService) *FeedService {
	return &FeedService{
		db: db,
		fs: fs,
	}
}

// Ensure the FeedService struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &FeedService{}

// Compose builds the feed page for the given viewer.
//
// The candidate set is an either/or: articles by followed authors if the
// viewer follows at least one user, the full article pool otherwise. An
// anonymous viewer (viewerID 0) and a viewer with zero follows get the same
// feed. If the follow lookup fails the feed degrades to the global pool
// instead of erroring.
func (f *FeedService) Compose(viewerID int, segment string, page int) (*domain.Feed, error) {
	if page < 1 {
		page = 1
	}

	db := withCounts(f.db)

	// Candidate set.
	if viewerID > 0 {
		followedIDs, err := f.fs.FollowedIDs(viewerID)
		if err == nil && len(followedIDs) > 0 {
			db = db.Where("articles.author_id IN ?", followedIDs)
		}
	}

	// Segment filter and ordering.
	switch {
	case segment == domain.SegmentPopular:
		db = db.Order("like_count desc, articles.created_at desc")
	case isTopicSegment(segment):
		substr := "%" + strings.ToLower(domain.TopicSegments[segment]) + "%"
		db = db.
			Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("LOWER(tags.name) LIKE ?", substr).
			Group("articles.id").
			Order("articles.created_at desc")
	default:
		// SegmentNew, unset and anything unrecognized.
		db = db.Order("articles.created_at desc")
	}

	var articles []domain.Article
	err := db.
		Preload("Author").
		Preload("Tags").
		Offset((page - 1) * domain.FeedPageSize).
		Limit(domain.FeedPageSize).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	recommended, err := f.Recommended()
	if err != nil {
		return nil, err
	}

	return &domain.Feed{
		Articles:    articles,
		Recommended: recommended,
		Segment:     segment,
		Page:        page,
	}, nil
}

// Recommended returns up to 10 articles carrying any of the 10 most recently
// created tags, newest first, each counted once. It always draws from the
// full article pool, never from a viewer's candidate set.
func (f *FeedService) Recommended() ([]domain.Article, error) {
	var tagIDs []int
	err := f.db.
		Model(&domain.Tag{}).
		Order("created_at desc").
		Limit(10).
		Pluck("id", &tagIDs).Error
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return nil, nil
	}

	var articles []domain.Article
	err = withCounts(f.db).
		Joins("JOIN article_tags ON article_tags.article_id = articles.id").
		Where("article_tags.tag_id IN ?", tagIDs).
		Group("articles.id").
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at desc").
		Limit(10).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// isTopicSegment reports whether the segment key names one of the fixed
// topic categories.
func isTopicSegment(segment string) bool {
	_, ok := domain.TopicSegments[segment]
	return ok
}
