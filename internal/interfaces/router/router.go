package router

import (
	"net/http"
	"time"

	authsvc "unimarket-backend/internal/application/auth"
	cartsvc "unimarket-backend/internal/application/cart"
	catsvc "unimarket-backend/internal/application/catalog"
	checkoutsvc "unimarket-backend/internal/application/checkout"
	sellersvc "unimarket-backend/internal/application/sellers"
	sellsvc "unimarket-backend/internal/application/selling"
	uploadsvc "unimarket-backend/internal/application/uploads"
	"unimarket-backend/internal/config"
	"unimarket-backend/internal/infrastructure/database"
	authhandler "unimarket-backend/internal/interfaces/handlers/auth"
	carthandler "unimarket-backend/internal/interfaces/handlers/cart"
	checkouthandler "unimarket-backend/internal/interfaces/handlers/checkout"
	healthhandler "unimarket-backend/internal/interfaces/handlers/health"
	producthandler "unimarket-backend/internal/interfaces/handlers/products"
	sellerhandler "unimarket-backend/internal/interfaces/handlers/sellers"
	uploadhandler "unimarket-backend/internal/interfaces/handlers/uploads"
	"unimarket-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware, stores, and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:             cfg.SessionSecret,
		RedisURL:           cfg.RedisURL,
		AllowCrossSiteDev:  cfg.AllowCrossSiteDev,
		IsProduction:       cfg.Env == "production",
		AllowedEmailDomain: cfg.AllowedEmailDomain,
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb, StartedAt: time.Now()}
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	if db != nil {
		as := &authsvc.Service{DB: db, AllowedEmailDomain: cfg.AllowedEmailDomain}
		ah := &authhandler.Handlers{Service: as, Rdb: rdb, Config: sessionCfg}
		authGroup := app.Group("/auth")
		authGroup.Post("/signup", ah.Signup)
		authGroup.Post("/login", ah.Login)
		authGroup.Get("/me", ah.Me)
		authGroup.Delete("/logout", ah.Logout)

		catalog := &catsvc.Service{DB: db}
		mediaClient := &uploadsvc.CloudinaryClient{
			CloudName:    cfg.CloudinaryCloudName,
			UploadPreset: cfg.CloudinaryUploadPreset,
		}
		upSvc := &uploadsvc.Service{Client: mediaClient}
		flow := &sellsvc.Flow{Catalog: catalog, Uploads: upSvc}

		ph := &producthandler.Handlers{Catalog: catalog, Flow: flow}
		app.Get("/products", ph.List)
		app.Get("/products/mine", middleware.RequireAuth(), ph.Mine)
		app.Get("/products/:product_id", ph.GetByID)
		app.Get("/products/:product_id/events", middleware.RequireAuth(), ph.Events)
		app.Post("/products", middleware.RequireSeller(), ph.Create)
		app.Post("/products/publish", middleware.RequireSeller(), ph.Publish)
		app.Put("/products/:product_id", middleware.RequireAuth(), ph.Update)
		app.Delete("/products/:product_id", middleware.RequireAuth(), ph.Delete)

		uph := &uploadhandler.Handlers{Service: upSvc}
		app.Post("/upload", middleware.RequireSeller(), uph.Upload)

		carts := &cartsvc.Service{DB: db}
		ch := &carthandler.Handlers{Cart: carts, Catalog: catalog}
		cg := app.Group("/cart", middleware.RequireAuth())
		cg.Get("/", ch.Get)
		cg.Post("/items", ch.AddItem)
		cg.Delete("/items/:product_id", ch.RemoveItem)

		checkouts := &checkoutsvc.Service{
			Creator:    &checkoutsvc.StripeSessionCreator{SecretKey: cfg.StripeSecretKey},
			SuccessURL: cfg.BaseURL + "/success",
			CancelURL:  cfg.BaseURL + "/cart",
		}
		ckh := &checkouthandler.Handlers{Cart: carts, Checkout: checkouts}
		app.Post("/checkout-session", middleware.RequireAuth(), ckh.CreateSession)

		sellerSvc := &sellersvc.Service{
			DB:         db,
			Client:     &sellersvc.StripeAccountClient{SecretKey: cfg.StripeSecretKey},
			RefreshURL: cfg.OnboardingRefreshURL,
			ReturnURL:  cfg.OnboardingReturnURL,
		}
		sh := &sellerhandler.Handlers{Service: sellerSvc}
		app.Post("/connected-account", middleware.RequireAuth(), sh.CreateConnectedAccount)
		app.Post("/onboarding-link", middleware.RequireAuth(), sh.CreateOnboardingLink)
		app.Get("/seller-status", sh.SellerStatus)
	}

	return app, db, rdb, nil
}

// Handler adapts the Fiber app for net/http servers.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
