package httpapi

import (
	"net/http"

	"github.com/fairyhunter13/smartmarket-catalog/internal/model"
	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
)

// Resource paths.
const (
	PathCategories        = "categories"
	PathSubCategories     = "subcategories"
	PathProducts          = "products"
	PathProductAttributes = "product-attributes"
	PathProductSkus       = "product-skus"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
// Every route lives under app.Cfg.BasePath.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	cat := app.Catalog
	resource[model.Category]{path: PathCategories, svc: cat.Categories}.register(mux)
	resource[model.SubCategory]{path: PathSubCategories, svc: cat.SubCategories}.register(mux)
	resource[model.Product]{path: PathProducts, svc: cat.Products}.register(mux)
	resource[model.ProductAttribute]{path: PathProductAttributes, svc: cat.ProductAttributes}.register(mux)
	resource[model.ProductsSku]{path: PathProductSkus, svc: cat.ProductsSkus}.register(mux)
	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)

	var h http.Handler = WithTelemetry(app.Tracer, app.Metrics, mux)
	if base := app.Cfg.BasePath; base != "" {
		h = http.StripPrefix(base, h)
	}
	if app.Cfg.ServerTiming {
		h = obs.WithServerTiming(h)
	}
	return WithRequestID(WithLogging(h))
}
