package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meetsync/meeting-service/internal/security"
	httpmw "github.com/meetsync/meeting-service/internal/transport/http/middleware"
	"github.com/meetsync/meeting-service/internal/transport/ws"
)

func NewRouter(h *Handler, tokens *security.TokenManager, companies httpmw.CompanyVerifier, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Admission protocol endpoint; authentication happens at the protocol
	// level, not on the upgrade.
	r.Get("/ws", wsServer.HandleWS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", h.Signup)
		ar.Post("/login", h.Login)
		ar.With(httpmw.Auth(tokens)).Get("/user/{id}", h.GetUser)
	})

	r.Route("/rooms", func(rr chi.Router) {
		rr.Get("/{roomID}", h.GetRoom)
		rr.Post("/{roomID}/get-token", h.GetToken)

		rr.Group(func(pr chi.Router) {
			pr.Use(httpmw.Auth(tokens))
			pr.Use(chimw.Timeout(30 * time.Second))
			pr.Post("/create", h.CreateRoom)
			pr.Get("/", h.ListRooms)
		})
	})

	r.Route("/companies", func(cr chi.Router) {
		cr.Use(httpmw.Auth(tokens))
		cr.Post("/create", h.CreateCompany)
		cr.Get("/{id}", h.GetCompany)
		cr.Delete("/{id}", h.DeleteCompany)
	})

	r.Route("/subscriptions", func(sr chi.Router) {
		sr.Get("/", h.ListPlans)
		sr.Get("/callback", h.SubscriptionCallback)

		sr.Group(func(pr chi.Router) {
			pr.Use(httpmw.AuthOrAPIKey(tokens, companies))
			pr.Get("/user", h.UserSubscriptions)
			pr.Post("/subscribe", h.Subscribe)
		})
	})

	return r
}
