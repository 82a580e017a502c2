package main

import (
	"os"
	"strconv"
	"time"

	"billing-backend/billing"
	"billing-backend/controllers"
	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// taxRate reads TAX_RATE as a decimal fraction, defaulting to the flat GST
// rate of the shop.
func taxRate() decimal.Decimal {
	if v := os.Getenv("TAX_RATE"); v != "" {
		if rate, err := decimal.NewFromString(v); err == nil && rate.IsPositive() {
			return rate
		}
		log.Warn().Str("TAX_RATE", v).Msg("unparseable tax rate, using default")
	}
	return billing.DefaultTaxRate
}

func main() {
	// ---- Logging
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if os.Getenv("LOG_FORMAT") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
	}

	// ---- Database
	database.Connect()
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// ---- Billing core wiring (catalog and tax rate are fixed at startup)
	controllers.Catalog = billing.DefaultCatalog()
	controllers.Carts = billing.NewStore(controllers.Catalog, taxRate())
	controllers.Invoices = database.NewInvoiceStore(database.DB)
	middlewares.IdempotencyKeys = database.NewIdempotencyKeyStore(database.DB)

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 * 1024 * 1024 bytes if unset (per docs).
	// We allow overriding with BODY_LIMIT_BYTES or BODY_LIMIT_MB.
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	app.Use(middlewares.RequestLogger())

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)                                            // default 60 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
	}))

	// ---- Routes
	routes.Register(app)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("starting API server")
	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
