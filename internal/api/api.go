package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tokano3/warikanbot/internal/ledger/postgres"
	"github.com/tokano3/warikanbot/internal/meal"
)

// API serves a small read-only surface for operators: liveness, the current
// session state, and the mirrored meal history when Postgres is configured.
type API struct {
	router *mux.Router
	svc    *meal.Service
	store  *postgres.Store
	bind   string
}

// New builds the API. store may be nil when no Postgres mirror is configured.
func New(bind string, svc *meal.Service, store *postgres.Store) *API {
	a := &API{
		router: mux.NewRouter(),
		svc:    svc,
		store:  store,
		bind:   bind,
	}

	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.HandleFunc("/api/session", a.handleSession).Methods("GET")
	a.router.HandleFunc("/api/meals", a.handleRecentMeals).Methods("GET")
}

func (a *API) Start() error {
	corsOptions := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.bind)
	return http.ListenAndServe(a.bind, handler)
}
