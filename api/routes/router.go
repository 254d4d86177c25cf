package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caffeinepub/sajavathub-com-sub000/api/controllers"
	"github.com/caffeinepub/sajavathub-com-sub000/api/middleware"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/catalog"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/designers"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/orders"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/projects"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/roompackages"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/users"
	"github.com/caffeinepub/sajavathub-com-sub000/internal/vendors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/config"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/metrics"
	pkgredis "github.com/caffeinepub/sajavathub-com-sub000/pkg/redis"
)

// Cache is the redis surface the HTTP layer needs: idempotency records, OTP
// rate-limit counters and the readiness ping.
type Cache interface {
	pkgredis.IdempotencyStore
	WindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	DB       db.Pinger
	Cache    Cache
	Registry *prometheus.Registry

	Catalog      catalog.Service
	RoomPackages roompackages.Service
	Designers    designers.Service
	Projects     projects.Service
	Orders       orders.Service
	Vendors      vendors.Service
	Users        users.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if deps.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(deps.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
	)

	otpPolicy := middleware.NewOTPRateLimitPolicy(
		"request_otp",
		cfg.RateLimit.OTPWindow,
		cfg.RateLimit.OTPIPLimit,
		cfg.RateLimit.OTPMobileLimit,
	)
	verifyPolicy := middleware.NewOTPRateLimitPolicy(
		"verify_otp",
		cfg.RateLimit.VerifyWindow,
		cfg.RateLimit.VerifyIPLimit,
		cfg.RateLimit.VerifyMobileLim,
	)

	var (
		otpLimit    = middleware.OTPRateLimit(otpPolicy, deps.Cache, logg)
		verifyLimit = middleware.OTPRateLimit(verifyPolicy, deps.Cache, logg)
		idempotent  = middleware.Idempotency(deps.Cache, cfg.Idempotency.TTL, logg)
		checkout    = middleware.Idempotency(deps.Cache, cfg.Idempotency.CheckoutTTL, logg)
		readiness   = map[string]controllers.Pinger{"db": deps.DB, "redis": deps.Cache}
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	if cfg.App.IsDev() {
		r.Post("/api/v1/dev/token", controllers.DevToken(cfg.JWT, logg))
	}

	r.Route("/api/v1/rpc", func(r chi.Router) {
		r.Use(middleware.Principal(cfg.JWT, logg))

		// Catalog
		r.Post("/getProducts", controllers.GetProducts(deps.Catalog, logg))
		r.Post("/findProductHelper", controllers.FindProduct(deps.Catalog, logg))
		r.Post("/getProductsByCategory", controllers.GetProductsByCategory(deps.Catalog, logg))
		r.Post("/getProductsByBrand", controllers.GetProductsByBrand(deps.Catalog, logg))
		r.Post("/getProductsByFurnitureCategory", controllers.GetProductsByFurnitureCategory(deps.Catalog, logg))
		r.Post("/getProductsByFurnitureSubCategory", controllers.GetProductsByFurnitureSubCategory(deps.Catalog, logg))
		r.Post("/globalProductSearch", controllers.GlobalProductSearch(deps.Catalog, logg))
		r.Post("/searchFurnitureProducts", controllers.SearchFurnitureProducts(deps.Catalog, logg))
		r.Post("/getProductCategories", controllers.GetProductCategories(deps.Catalog, logg))
		r.Post("/getProductBrands", controllers.GetProductBrands(deps.Catalog, logg))
		r.Post("/getFurnitureCategories", controllers.GetFurnitureCategories(deps.Catalog, logg))
		r.Post("/addProduct", controllers.AddProduct(deps.Catalog, logg))
		r.Post("/deleteProduct", controllers.DeleteProduct(deps.Catalog, logg))
		r.Post("/addProductCategory", controllers.AddProductCategory(deps.Catalog, logg))
		r.Post("/addProductBrand", controllers.AddProductBrand(deps.Catalog, logg))
		r.Post("/addFurnitureCategory", controllers.AddFurnitureCategory(deps.Catalog, logg))

		// Room packages
		r.Post("/getRoomPackages", controllers.GetRoomPackages(deps.RoomPackages, logg))
		r.Post("/getPackagesByPriceRange", controllers.GetPackagesByPriceRange(deps.RoomPackages, logg))
		r.Post("/getRoomPackagesByRoomType", controllers.GetRoomPackagesByRoomType(deps.RoomPackages, logg))
		r.Post("/getRoomPackagesByStyle", controllers.GetRoomPackagesByStyle(deps.RoomPackages, logg))
		r.Post("/getRoomPackagesByStyleAndRoomType", controllers.GetRoomPackagesByStyleAndRoomType(deps.RoomPackages, logg))
		r.Post("/getRoomPackageById", controllers.GetRoomPackageByID(deps.RoomPackages, logg))
		r.Post("/getProductsForRoomPackage", controllers.GetProductsForRoomPackage(deps.RoomPackages, logg))
		r.Post("/getStyleOptionsForRoomType", controllers.GetStyleOptionsForRoomType(deps.RoomPackages, logg))
		r.Post("/addRoomPackage", controllers.AddRoomPackage(deps.RoomPackages, logg))
		r.Post("/deleteRoomPackage", controllers.DeleteRoomPackage(deps.RoomPackages, logg))

		// Designers
		r.Post("/getDesigners", controllers.GetDesigners(deps.Designers, logg))
		r.Post("/getDesignerById", controllers.GetDesignerByID(deps.Designers, logg))
		r.Post("/addDesigner", controllers.AddDesigner(deps.Designers, logg))
		r.Post("/getRecommendedDesigners", controllers.GetRecommendedDesigners(deps.Designers, logg))
		r.Post("/getRecommendedDesignersForBrief", controllers.GetRecommendedDesignersForBrief(deps.Designers, logg))

		// Projects
		r.With(idempotent).Post("/createProjectBrief", controllers.CreateProjectBrief(deps.Projects, logg))
		r.Post("/getProjectBrief", controllers.GetProjectBrief(deps.Projects, logg))
		r.Post("/getCallerProjectBriefs", controllers.GetCallerProjectBriefs(deps.Projects, logg))
		r.Post("/updateProjectBriefStatus", controllers.UpdateProjectBriefStatus(deps.Projects, logg))
		r.With(idempotent).Post("/createConsultationRequest", controllers.CreateConsultationRequest(deps.Projects, logg))
		r.Post("/getConsultationsForProject", controllers.GetConsultationsForProject(deps.Projects, logg))
		r.Post("/getCallerConsultationRequests", controllers.GetCallerConsultationRequests(deps.Projects, logg))
		r.Post("/updateConsultationStatus", controllers.UpdateConsultationStatus(deps.Projects, logg))
		r.Post("/addNote", controllers.AddNote(deps.Projects, logg))
		r.Post("/getNotesForProject", controllers.GetNotesForProject(deps.Projects, logg))

		// Orders
		r.Post("/calculateOrderTotal", controllers.CalculateOrderTotal(deps.Orders, logg))
		r.With(checkout).Post("/placeOrder", controllers.PlaceOrder(deps.Orders, logg))
		r.Post("/getOrder", controllers.GetOrder(deps.Orders, logg))
		r.Post("/getUserOrders", controllers.GetUserOrders(deps.Orders, logg))

		// Vendors
		r.With(otpLimit).Post("/requestOtp", controllers.RequestOtp(deps.Vendors, logg))
		r.With(verifyLimit).Post("/verifyOtp", controllers.VerifyOtp(deps.Vendors, logg))
		r.With(idempotent).Post("/registerVendor", controllers.RegisterVendor(deps.Vendors, logg))
		r.Post("/getVendors", controllers.GetVendors(deps.Vendors, logg))
		r.Post("/getVendorByGstNumber", controllers.GetVendorByGstNumber(deps.Vendors, logg))
		r.Post("/getVendorByMobileNumber", controllers.GetVendorByMobileNumber(deps.Vendors, logg))

		// Users
		r.Post("/initializeAccessControl", controllers.InitializeAccessControl(deps.Users, logg))
		r.Post("/getCallerUserRole", controllers.GetCallerUserRole(deps.Users, logg))
		r.Post("/isCallerAdmin", controllers.IsCallerAdmin(deps.Users, logg))
		r.Post("/assignCallerUserRole", controllers.AssignCallerUserRole(deps.Users, logg))
		r.Post("/getCallerUserProfile", controllers.GetCallerUserProfile(deps.Users, logg))
		r.Post("/saveCallerUserProfile", controllers.SaveCallerUserProfile(deps.Users, logg))
		r.Post("/getUserProfile", controllers.GetUserProfile(deps.Users, logg))
	})

	return r
}
