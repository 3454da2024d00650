// Package httpapi is the REST transport: routing, the auth gate, request
// decoding and validation, and mapping service errors to JSON responses.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/server/validation"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetAuthUser(ctx context.Context, userID string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type ProfileService interface {
	Upsert(ctx context.Context, userID string, fields models.ProfileFields) (*models.Profile, error)
	Me(ctx context.Context, userID string) (*models.Profile, error)
	ByUser(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
	GitHubRepos(ctx context.Context, username string) (json.RawMessage, error)
}

type PostService interface {
	Create(ctx context.Context, userID, text string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) ([]models.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]models.Like, error)
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	users           UserService
	profiles        ProfileService
	posts           PostService
	validator       *validation.Validator
	jwtSecret       []byte
	corsOrigins     []string
	shutdownTimeout time.Duration
}

const defaultShutdownTimeout = 10 * time.Second

func NewHTTPServer(cfg *config.Config, l logging.Logger, us UserService, ps ProfileService, pos PostService) *HTTPServer {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServer{
		address:         cfg.EndpointAddrHTTP,
		logger:          l.With("module", "http_server"),
		users:           us,
		profiles:        ps,
		posts:           pos,
		validator:       validation.NewValidator(),
		jwtSecret:       []byte(cfg.SecretKey),
		corsOrigins:     cfg.CORSAllowedOrigins,
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/users", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth", s.requireAuth(s.handleAuthUser)).Methods(http.MethodGet)
	r.HandleFunc("/api/auth", s.handleLogin).Methods(http.MethodPost)

	r.HandleFunc("/api/profile", s.handleListProfiles).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", s.requireAuth(s.handleUpsertProfile)).Methods(http.MethodPost)
	r.HandleFunc("/api/profile", s.requireAuth(s.handleDeleteAccount)).Methods(http.MethodDelete)
	r.HandleFunc("/api/profile/me", s.requireAuth(s.handleMyProfile)).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/user/{user_id}", s.handleProfileByUser).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/experience", s.requireAuth(s.handleAddExperience)).Methods(http.MethodPut)
	r.HandleFunc("/api/profile/experience/{exp_id}", s.requireAuth(s.handleRemoveExperience)).Methods(http.MethodDelete)
	r.HandleFunc("/api/profile/education", s.requireAuth(s.handleAddEducation)).Methods(http.MethodPut)
	r.HandleFunc("/api/profile/education/{edu_id}", s.requireAuth(s.handleRemoveEducation)).Methods(http.MethodDelete)
	r.HandleFunc("/api/profile/github/{username}", s.handleGitHubRepos).Methods(http.MethodGet)

	r.HandleFunc("/api/posts", s.requireAuth(s.handleCreatePost)).Methods(http.MethodPost)
	r.HandleFunc("/api/posts", s.requireAuth(s.handleListPosts)).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{post_id}", s.requireAuth(s.handleGetPost)).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{post_id}", s.requireAuth(s.handleDeletePost)).Methods(http.MethodDelete)
	r.HandleFunc("/api/posts/like/{post_id}", s.requireAuth(s.handleLikePost)).Methods(http.MethodPut)
	r.HandleFunc("/api/posts/unlike/{post_id}", s.requireAuth(s.handleUnlikePost)).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMsg(w, http.StatusNotFound, "Not found")
	})
	return r
}

// Handler returns the full middleware chain around the router.
func (s *HTTPServer) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization", "x-auth-token"},
	})
	return s.recoverPanics(s.logRequests(c.Handler(s.routes())))
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout.
func (s *HTTPServer) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
