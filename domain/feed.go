package domain

// Feed segments. A segment is a named filter / ranking mode for the home
// feed. SegmentPopular and SegmentNew only change the ordering, the topic
// segments narrow the candidate set down to articles carrying a tag whose
// name contains the segment's substring. Anything unrecognized behaves
// like SegmentNew.
const (
	SegmentNew     = "new"
	SegmentPopular = "popular"
)

// TopicSegments maps segment keys to the tag-name substring they match.
// The match is case-insensitive.
var TopicSegments = map[string]string{
	"tech":        "tech",
	"ios":         "ios",
	"design":      "design",
	"psychology":  "psychology",
	"business":    "business",
	"inspiration": "inspiration",
	"books":       "books",
	"sport":       "sport",
	"music":       "music",
	"photo":       "photo",
}

// FeedPageSize is the fixed number of articles per feed page.
const FeedPageSize = 20

// Feed is one page of the home feed plus the side list of recommendations.
type Feed struct {
	Articles    []Article `json:"articles"`
	Recommended []Article `json:"recommended"`
	Segment     string    `json:"segment"`
	Page        int       `json:"page"`
}

// FeedService composes the home feed out of the article pool.
type FeedService interface {
	// Compose builds the feed page for the given viewer. viewerID 0 means
	// an anonymous viewer. An unknown segment falls back to SegmentNew and
	// an out-of-range page yields an empty article list.
	Compose(viewerID int, segment string, page int) (*Feed, error)

	// Recommended returns up to 10 articles carrying any of the 10 most
	// recently created tags, newest first. It always draws from the full
	// article pool regardless of viewer.
	Recommended() ([]Article, error)
}
