package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"readly/crud"
	"readly/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	as     domain.ArticleService
	cs     domain.CommentService
	fs     domain.FollowService
	ls     domain.LikeService
	favs   domain.FavoriteService
	feeds  domain.FeedService
	is     domain.ImageService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfAuthKey string, services *crud.Services, is domain.ImageService) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		as:     services.Article,
		cs:     services.Comment,
		fs:     services.Follow,
		ls:     services.Like,
		favs:   services.Favorite,
		feeds:  services.Feed,
		is:     is,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerFeedRoutes(s.router)
	s.registerArticleRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerUserRoutes(s.router)

	// Serve stored images (avatars and covers).
	s.router.PathPrefix("/" + domain.ImagesBaseDir + "/").Handler(
		http.StripPrefix("/"+domain.ImagesBaseDir+"/", http.FileServer(http.Dir(domain.ImagesBaseDir))))

	// Set up middleware that needs to run on every request.
	csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.checkUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe("localhost:"+strconv.Itoa(port), s.router))
}
