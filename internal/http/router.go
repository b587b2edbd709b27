package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prompt-library/internal/handlers"
	"prompt-library/internal/service"
)

// CredentialStore checks logins and reports known users.
type CredentialStore interface {
	handlers.CredentialChecker
	UserDirectory
}

// SessionManager issues and verifies session tokens.
type SessionManager interface {
	handlers.SessionIssuer
	SessionVerifier
}

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Library        service.LibraryService
	Store          handlers.RecordLoader
	Attachments    handlers.AttachmentResolver
	Credentials    CredentialStore
	Sessions       SessionManager
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(Theme)

	pages := handlers.NewPages()
	loginHandler := handlers.NewLoginHandler(pages, deps.Credentials, deps.Sessions)
	addHandler := handlers.NewAddHandler(pages, deps.Library, deps.MaxUploadBytes)
	viewHandler := handlers.NewViewHandler(pages, deps.Library, handlers.NewMarkdownRenderer())
	exportHandler := handlers.NewExportHandler(pages, deps.Library)
	attachmentHandler := handlers.NewAttachmentHandler(deps.Attachments)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Handle("/login", loginHandler)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(deps.Sessions, deps.Credentials))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/add", http.StatusSeeOther)
		})
		r.Handle("/add", addHandler)
		r.Handle("/view", viewHandler)
		r.Get("/export", exportHandler.Page)
		r.Get("/export/prompts.md", exportHandler.Markdown)
		r.Get("/export/prompts.json", exportHandler.JSON)
		r.Get("/attachments/{name}", attachmentHandler.ServeHTTP)
		r.Post("/theme", handlers.ThemeHandler)
	})

	return r
}
