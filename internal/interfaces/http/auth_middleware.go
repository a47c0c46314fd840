package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/rentabilidad-api/pkg/jwt"
)

// Locals keys para el usuario y sus capacidades en Fiber.
const (
	LocalUserID       = "user_id"
	LocalCapabilities = "capabilities"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID y capacidades en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalCapabilities, capabilitiesFrom(claims))
		return c.Next()
	}
}

func capabilitiesFrom(claims *jwt.Claims) entity.Capabilities {
	return entity.Capabilities{
		CanUpload:      claims.Has(jwt.CapUpload),
		CanViewAll:     claims.Has(jwt.CapViewAll),
		CanDelete:      claims.Has(jwt.CapDelete),
		CanManageUsers: claims.Has(jwt.CapManageUsers),
		CanUseAI:       claims.Has(jwt.CapUseAI),
	}
}

// RequireCapability responde 403 si el token no concede la capacidad (nombres de pkg/jwt).
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caps := GetCapabilities(c)
		allowed := map[string]bool{
			jwt.CapUpload:      caps.CanUpload,
			jwt.CapViewAll:     caps.CanViewAll,
			jwt.CapDelete:      caps.CanDelete,
			jwt.CapManageUsers: caps.CanManageUsers,
			jwt.CapUseAI:       caps.CanUseAI,
		}[capability]
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permiso requerido: " + capability,
			})
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCapabilities devuelve las capacidades del token; sin token, ninguna.
func GetCapabilities(c *fiber.Ctx) entity.Capabilities {
	caps, _ := c.Locals(LocalCapabilities).(entity.Capabilities)
	return caps
}

// GetCaller usuario y capacidades de la petición.
func GetCaller(c *fiber.Ctx) entity.Caller {
	return entity.Caller{ActorID: GetUserID(c), Capabilities: GetCapabilities(c)}
}
