package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authbase/authbase/internal/auth"
)

// RegisterAuthRoutes wires the authentication endpoints. The rate limiter
// guards every operation that emails a code or checks credentials.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/sign-in", rateLimiter, h.SignIn)
		group.Post("/resend-otp", rateLimiter, h.ResendOTP)
		group.Post("/forget-password", rateLimiter, h.ForgetPassword)
	} else {
		group.Post("/sign-in", h.SignIn)
		group.Post("/resend-otp", h.ResendOTP)
		group.Post("/forget-password", h.ForgetPassword)
	}
	group.Post("/verify-otp", h.VerifyOTP)
	group.Post("/refresh-token", h.RefreshToken)
	group.Post("/reset-password", h.ResetPassword)
}
