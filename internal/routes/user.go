package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/authbase/authbase/internal/auth"
	"github.com/authbase/authbase/internal/user"
)

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsVerified: u.IsVerified,
		Image:      u.Image,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// RegisterUserRoutes wires the public registration endpoint. Registration
// creates the account unverified and emails a verification code.
func RegisterUserRoutes(r fiber.Router, authSvc *auth.Service) {
	r.Post("/user", func(c *fiber.Ctx) error {
		var req struct {
			Email    string  `json:"email"`
			Name     string  `json:"name"`
			Password string  `json:"password"`
			Image    *string `json:"image"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		u, err := authSvc.Register(c.UserContext(), user.CreateInput{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
			Image:    req.Image,
		})
		if err != nil {
			return err
		}
		return c.Status(http.StatusCreated).JSON(toUserResponse(u))
	})
}

// RegisterProtectedUserRoutes wires the token-guarded user CRUD surface.
func RegisterProtectedUserRoutes(r fiber.Router, users *user.Service) {
	r.Get("/user", func(c *fiber.Ctx) error {
		list, err := users.List(c.UserContext())
		if err != nil {
			return err
		}
		resp := make([]userResponse, 0, len(list))
		for _, u := range list {
			resp = append(resp, toUserResponse(u))
		}
		return c.JSON(resp)
	})

	r.Get("/user/:id", func(c *fiber.Ctx) error {
		u, err := users.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toUserResponse(u))
	})

	r.Patch("/user/:id", func(c *fiber.Ctx) error {
		var req struct {
			Name     *string `json:"name"`
			Image    *string `json:"image"`
			Password *string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		u, err := users.Update(c.UserContext(), c.Params("id"), user.UpdateInput{
			Name:     req.Name,
			Image:    req.Image,
			Password: req.Password,
		})
		if err != nil {
			return err
		}
		return c.JSON(toUserResponse(u))
	})

	r.Delete("/user/:id", func(c *fiber.Ctx) error {
		if err := users.Delete(c.UserContext(), c.Params("id")); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	})
}
