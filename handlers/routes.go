package handlers

import (
	"net/http"
	"time"

	"github.com/camden-git/campaidbackend/database"
	"github.com/camden-git/campaidbackend/logging"
	"github.com/camden-git/campaidbackend/permissions"
	"github.com/camden-git/campaidbackend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterOptions carries what the HTTP layer needs from the process configuration.
type RouterOptions struct {
	JWTSecret          []byte
	JWTExpiration      time.Duration
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	Logger             *zap.Logger
}

// NewRouter wires every route onto a chi router.
func NewRouter(db *database.DB, gormDB *gorm.DB, opts RouterOptions) http.Handler {
	userRepo := repository.NewGormUserRepository(gormDB)

	authHandler := NewAuthHandler(userRepo, opts.JWTSecret, opts.JWTExpiration)
	setupHandler := NewSetupHandler(gormDB)
	campHandler := &CampHandler{DB: db}
	familyHandler := &FamilyHandler{DB: db}
	personHandler := &PersonHandler{DB: db}
	donationHandler := &DonationHandler{DB: db}

	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLog(logger, "http"),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(corsHandler.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, http.StatusMethodNotAllowed, CodeBadRequest, "Method Not Allowed")
	})

	r.Post("/setup", setupHandler.CreateFirstAdmin)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(userRepo, opts.JWTSecret))
		need := RequireGlobalPermission

		r.Get("/auth/me", authHandler.CurrentUser)
		r.Get("/permissions", ListDefinedPermissions)

		r.Route("/camps", func(r chi.Router) {
			r.With(need(permissions.CampCreate)).Post("/", campHandler.CreateCamp)
			r.With(need(permissions.CampList)).Get("/", campHandler.ListCamps)
			r.Route("/{campID}", func(r chi.Router) {
				r.With(need(permissions.CampView)).Get("/", campHandler.GetCamp)
				r.With(need(permissions.CampEdit)).Patch("/", campHandler.UpdateCamp)
				r.With(need(permissions.CampDelete)).Delete("/", campHandler.DeleteCamp)
			})
		})

		r.Route("/families", func(r chi.Router) {
			r.With(need(permissions.FamilyCreate)).Post("/", familyHandler.CreateFamily)
			r.With(need(permissions.FamilyList)).Get("/", familyHandler.ListFamilies)
			r.With(need(permissions.FamilyHousehold)).Get("/household", familyHandler.ListUnassignedPeople)
			r.Route("/{familyID}", func(r chi.Router) {
				r.With(need(permissions.FamilyView)).Get("/", familyHandler.GetFamily)
				r.With(need(permissions.FamilyEdit)).Patch("/", familyHandler.UpdateFamily)
				r.With(need(permissions.FamilyDelete)).Delete("/", familyHandler.DeleteFamily)

				r.With(need(permissions.FamilyHousehold)).Get("/people", familyHandler.ListHousehold)
				r.With(need(permissions.FamilyHousehold)).Post("/people/{personID}", familyHandler.AddHouseholdMember)

				r.With(need(permissions.FamilyDistribution)).Get("/donations", familyHandler.ListNewDonations)
				r.Route("/donations/{donationID}", func(r chi.Router) {
					r.Use(need(permissions.FamilyDistribution))
					r.Post("/", familyHandler.CreateDistribution)
					r.Patch("/", familyHandler.MarkDistributionReceived)
					r.Delete("/", familyHandler.DeleteDistribution)
				})
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.With(need(permissions.PersonCreate)).Post("/", personHandler.CreatePerson)
			r.With(need(permissions.PersonList)).Get("/", personHandler.ListPeople)
			r.Route("/{personID}", func(r chi.Router) {
				// any signed-in administrator may look a person up
				r.Get("/", personHandler.GetPerson)
				r.With(need(permissions.PersonEdit)).Patch("/", personHandler.UpdatePerson)
				r.With(need(permissions.PersonDelete)).Delete("/", personHandler.DeletePerson)
			})
		})

		r.Route("/donations", func(r chi.Router) {
			r.With(need(permissions.DonationCreate)).Post("/", donationHandler.CreateDonation)
			r.With(need(permissions.DonationList)).Get("/", donationHandler.ListDonations)
			r.Route("/{donationID}", func(r chi.Router) {
				r.With(need(permissions.DonationView)).Get("/", donationHandler.GetDonation)
				r.With(need(permissions.DonationEdit)).Patch("/", donationHandler.UpdateDonation)
				r.With(need(permissions.DonationDelete)).Delete("/", donationHandler.DeleteDonation)
			})
		})
	})

	return r
}
