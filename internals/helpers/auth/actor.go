package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"biblioteca_backend/internals/features/biblioteca/policy"
)

// Claves de Locals pobladas por el middleware de auth.
const (
	LocalCuentaID = "cuenta_id"
	LocalRole     = "userRole"
	LocalCaps     = "userCaps"
	LocalLectorID = "lector_id"
)

// ActorFromContext reconstruye el actor explícito desde los Locals del request.
// Devuelve false si el request no pasó por el middleware de auth.
func ActorFromContext(c *fiber.Ctx) (policy.Actor, bool) {
	idStr, ok := c.Locals(LocalCuentaID).(string)
	if !ok || idStr == "" {
		return policy.Actor{}, false
	}
	cuentaID, err := uuid.Parse(idStr)
	if err != nil {
		return policy.Actor{}, false
	}

	actor := policy.Actor{CuentaID: cuentaID}
	if role, ok := c.Locals(LocalRole).(string); ok {
		actor.Role = role
	}
	if caps, ok := c.Locals(LocalCaps).([]string); ok {
		actor.Capabilities = caps
	}
	if lectorStr, ok := c.Locals(LocalLectorID).(string); ok && lectorStr != "" {
		if lectorID, err := uuid.Parse(lectorStr); err == nil {
			actor.LectorID = &lectorID
		}
	}
	return actor, true
}
