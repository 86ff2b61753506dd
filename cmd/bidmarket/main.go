package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"bidmarket/internal/config"
	"bidmarket/internal/http/handlers"
	applog "bidmarket/internal/log"
	"bidmarket/internal/repos"
	"bidmarket/internal/services"
	"bidmarket/internal/verify"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Verification + auth wiring
	ledger := verify.NewClient(cfg.VerifyBaseURL, cfg.VerifyTimeout, cfg.VerifyRetries)
	userRepo := repos.NewUserRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Custs: custRepo, Ledger: ledger}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with an opaque message
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for storefront pages)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("actor", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/")
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, ledger, authSvc)

	// Storefront pages
	app.Get("/", deps.StorefrontHandler.Home)
	app.Get("/collection/:id", deps.StorefrontHandler.Collection)

	// Auth (login throttled)
	api := app.Group("/api/v1")
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/challenge", authH.Challenge)
	api.Post("/auth/verify", authH.Prove)

	// Catalog
	api.Get("/collections", deps.CollectionHandler.List)
	api.Get("/collections/:id/products", deps.CollectionHandler.Products)
	api.Post("/collections", handlers.RequireAdmin(authSvc), deps.CollectionHandler.Create)
	api.Delete("/collections/:id", handlers.RequireAdmin(authSvc), deps.CollectionHandler.Delete)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.ProductHandler.Search)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Post("/products", handlers.RequirePrincipal(authSvc), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequirePrincipal(authSvc), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequirePrincipal(authSvc), deps.ProductHandler.Delete)

	// Visibility gate (owner toggle, purge on pull)
	api.Get("/products/:id/visibility", handlers.RequirePrincipal(authSvc), deps.ProductHandler.Visibility)
	api.Put("/products/:id/visibility", handlers.RequirePrincipal(authSvc), deps.ProductHandler.Visibility)

	// Bids
	bidLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|bids"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.bids.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/products/:id/bids", deps.BidHandler.List)
	api.Post("/products/:id/bids", bidLimiter, handlers.RequirePrincipal(authSvc), deps.BidHandler.Place)
	api.Put("/products/:id/bids/:bidId", handlers.RequirePrincipal(authSvc), deps.TransferHandler.Approve)
	api.Delete("/products/:id/bids/:bidId", handlers.RequirePrincipal(authSvc), deps.BidHandler.Withdraw)

	// Transfers
	api.Get("/transfers", handlers.RequirePrincipal(authSvc), deps.TransferHandler.List)
	api.Put("/transfers/:id", handlers.RequirePrincipal(authSvc), deps.TransferHandler.Confirm)

	// Reviews
	api.Get("/products/:id/reviews", deps.ReviewHandler.List)
	api.Post("/products/:id/reviews", handlers.RequirePrincipal(authSvc), deps.ReviewHandler.Post)
	api.Get("/reviews/:id/replies", deps.ReviewHandler.Replies)
	api.Post("/reviews/:id/replies", handlers.RequirePrincipal(authSvc), deps.ReviewHandler.Reply)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Delete("/cart/:productId", deps.CartHandler.Remove)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Get("/customers", deps.AdminHandler.CustomersPage)
	admin.Get("/transfers", deps.AdminHandler.TransfersPage)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
