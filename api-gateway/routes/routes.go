package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tair/clothing-store/api-gateway/config"
	"github.com/tair/clothing-store/api-gateway/health"
	"github.com/tair/clothing-store/api-gateway/middleware"
	"github.com/tair/clothing-store/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
	RateLimited  bool // stricter purchase rate limit
}

// Routes holds all route definitions. Auth is enforced again by the shop
// service; the gateway check just rejects obviously bad requests early.
var Routes = []RouteDefinition{
	{
		Prefix:      "/auth",
		ServiceName: "shop",
		Description: "Registration and login",
	},
	{
		Prefix:      "/products",
		ServiceName: "shop",
		Description: "Catalog browsing (public reads, admin mutations)",
	},
	{
		Prefix:      "/customers",
		ServiceName: "shop",
		Description: "Customer profile endpoints",
		RequireAuth: true,
	},
	{
		Prefix:      "/purchases",
		ServiceName: "shop",
		Description: "Purchase workflow",
		RequireAuth: true,
		RateLimited: true,
	},
	{
		Prefix:       "/admin",
		ServiceName:  "shop",
		Description:  "Administrative endpoints",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks backend instances)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllInstances(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed instance health
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAllInstances(ctx))
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Clothing Store API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, redisClient)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler

	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	if route.RateLimited && redisClient != nil {
		middlewares = append(middlewares, middleware.PurchaseRateLimiter(redisClient))
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
