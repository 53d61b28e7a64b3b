package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/tinylink/internal/handlers"
	"github.com/serroba/tinylink/internal/health"
	"github.com/serroba/tinylink/internal/middleware"
	"github.com/serroba/tinylink/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the chi router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(chimw.RequestID)
		router.Use(chimw.RealIP)
		router.Use(middleware.AccessLog(logger))
		router.Use(chimw.Recoverer)
		router.Use(middleware.SecurityHeaders())
		router.Use(middleware.CORS())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		primary := do.MustInvoke[*LinkStore](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("TinyLink", "1.0.0"))

		handlers.RegisterRoutes(api, handlers.NewLinkHandler(service, opts.PublicBaseURL(), logger))
		health.RegisterRoutes(api, health.NewHandler(primary, primary.Name))

		return api, nil
	})
}
