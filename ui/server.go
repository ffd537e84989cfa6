package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"csvexplorer/app"
	"csvexplorer/domain/core"
	"csvexplorer/internal"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html templates/fragments/*.html static/css/*.css
var embeddedFiles embed.FS

const (
	sessionIDKey   = "sid"
	ctxSessionKey  = "csvexplorer.session"
	uploadOverhead = 1 << 20 // multipart headers and boundaries on top of the file itself
)

// Options configures the web server
type Options struct {
	Explorer       *app.ExplorerService
	Gatherer       prometheus.Gatherer // served on /metrics when set
	SessionSecret  string
	CookieName     string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	GinMode        string
	Logger         *internal.Logger
}

// Server is the browser front end of the explorer
type Server struct {
	router    *gin.Engine
	explorer  *app.ExplorerService
	templates *template.Template
	cookies   *sessions.CookieStore
	opts      Options
	logger    *internal.Logger
}

// NewServer parses the embedded templates and wires routes
func NewServer(opts Options) (*Server, error) {
	if opts.Explorer == nil {
		return nil, fmt.Errorf("explorer service is required")
	}
	if len(opts.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.CookieName == "" {
		opts.CookieName = "csvexplorer_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 * 1024 * 1024
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	tmpl, err := parseTemplates(templatesFS)
	if err != nil {
		return nil, err
	}

	cookies := sessions.NewCookieStore([]byte(opts.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		router:    gin.New(),
		explorer:  opts.Explorer,
		templates: tmpl,
		cookies:   cookies,
		opts:      opts,
		logger:    opts.Logger,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()

	s.logger.Info("[Server] Initialized (gin mode %s)", gin.Mode())
	return s, nil
}

// setupMiddleware configures Gin middleware and static assets
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery(), s.accessLog())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.opts.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	pages := s.router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.POST("/upload", s.handleUpload)
	pages.POST("/reset", s.handleReset)

	api := s.router.Group("/api", s.sessionMiddleware())
	api.GET("/summary", s.handleSummary)
	api.GET("/cleaning", s.handleCleaning)
	api.GET("/chart", s.handleChart)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer builds the http.Server main runs. Connection errors from net/http go to the
// application logger at error level.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError),
	}
}

// accessLog writes one line per request through the application logger
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// sessionMiddleware resolves the browser session from the signed cookie, issuing a fresh id
// when the cookie is missing, unreadable or malformed. The cookie is written before the handler
// runs so it survives handlers that stream their body.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get returns a usable new session even when decoding fails.
		sess, err := s.cookies.Get(c.Request, s.opts.CookieName)
		if err != nil {
			s.logger.Debug("[Session] Discarding unreadable cookie: %v", err)
		}

		raw, _ := sess.Values[sessionIDKey].(string)
		sid, err := core.ParseSessionID(raw)
		if err != nil {
			sid = core.NewSessionID()
			sess.Values[sessionIDKey] = sid.String()
			s.logger.Debug("[Session] Issued session %s", sid)
		}

		if err := sess.Save(c.Request, c.Writer); err != nil {
			s.logger.Error("[Session] Failed to save cookie: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}

		c.Set(ctxSessionKey, sid)
		c.Next()
	}
}

func sessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(ctxSessionKey); ok {
		if sid, ok := v.(core.SessionID); ok {
			return sid
		}
	}
	return ""
}
