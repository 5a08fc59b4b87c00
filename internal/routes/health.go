package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes wires the health endpoint reporting dependency
// reachability.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if d.DB != nil {
			dbStatus = "up"
			if err := d.DB.Ping(ctx); err != nil {
				dbStatus = "down"
			}
		}
		redisStatus := "disabled"
		if d.Cache != nil {
			redisStatus = "up"
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
			}
		}

		status := http.StatusOK
		if dbStatus == "down" || redisStatus == "down" {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	})
}
