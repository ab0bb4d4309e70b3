package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/k7t3/horzcv/internal/services"
	"github.com/k7t3/horzcv/internal/shared"
)

// RouterOpts configures [NewRouter].
type RouterOpts struct {
	Lookup      services.Lookup
	Page        Handler // Optional chat row page
	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter builds the lookup server router with the standard middleware stack.
func NewRouter(opts RouterOpts) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(opts.Logger), Recover(opts.Logger))
	if len(opts.CORSOrigins) > 0 {
		router.Use(CORS(opts.CORSOrigins))
	}

	router.Handler(NewStreamerHandler(opts.Lookup, opts.Logger))
	router.HandleFunc(http.MethodGet, "/healthz", HealthHandler)
	if opts.Page != nil {
		router.Handler(opts.Page)
	}
	return router
}
