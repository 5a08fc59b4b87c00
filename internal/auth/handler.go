package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/authbase/authbase/internal/otp"
)

// Handler exposes the auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler wraps the auth service for HTTP.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn validates credentials and returns a token pair.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.svc.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(pair)
}

type verifyOTPRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otpCode"`
	Type    string `json:"type"`
}

// VerifyOTP checks a submitted code. For the verify purpose the response
// carries a token pair; for reset it carries only an acknowledgment.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	purpose := otp.PurposeVerify
	if req.Type == string(otp.PurposeReset) {
		purpose = otp.PurposeReset
	}

	result, err := h.svc.VerifyOTP(c.UserContext(), req.Email, req.OTPCode, purpose)
	if err != nil {
		return err
	}

	resp := fiber.Map{"message": result.Message}
	if result.Tokens != nil {
		resp["token"] = result.Tokens.Token
		resp["refreshToken"] = result.Tokens.RefreshToken
	}
	return c.Status(http.StatusOK).JSON(resp)
}

type emailRequest struct {
	Email string `json:"email"`
}

// ResendOTP re-issues a verification code.
func (h *Handler) ResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email is required")
	}
	if err := h.svc.ResendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "OTP sent successfully",
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken issues a new access token from a valid refresh token.
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	pair, err := h.svc.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(pair)
}

// ForgetPassword emails a reset-purpose code.
func (h *Handler) ForgetPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email is required")
	}
	if err := h.svc.ForgetPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password reset code sent"})
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPassword overwrites the account password. Callers must verify a
// reset-purpose OTP first.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password are required")
	}
	if err := h.svc.ResetPassword(c.UserContext(), req.Email, req.Password); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password reset successfully"})
}
