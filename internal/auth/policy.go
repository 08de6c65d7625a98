package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/domain"
	apperrors "github.com/quickdesk/helpdesk-service/pkg/util"
)

// Capability names one operation class a role may perform.
type Capability string

const (
	CapCreateTicket     Capability = "create-ticket"
	CapViewOwnTickets   Capability = "view-own-tickets"
	CapViewAllTickets   Capability = "view-all-tickets"
	CapReply            Capability = "reply"
	CapSetStatus        Capability = "set-status"
	CapManageUsers      Capability = "manage-users"
	CapManageCategories Capability = "manage-categories"
)

// Allows reports whether a role carries a capability. The switch is
// exhaustive over the role enum; unknown roles get nothing.
func Allows(role domain.Role, cap Capability) bool {
	switch role {
	case domain.RoleUser:
		switch cap {
		case CapCreateTicket, CapViewOwnTickets, CapReply:
			return true
		}
	case domain.RoleAgent:
		switch cap {
		case CapViewAllTickets, CapReply, CapSetStatus:
			return true
		}
	case domain.RoleAdmin:
		// admin dashboard is read-only over tickets: no reply/status rights
		switch cap {
		case CapManageUsers, CapManageCategories, CapViewAllTickets:
			return true
		}
	}
	return false
}

// RequireCapability rejects callers whose role lacks the capability before
// any store is touched.
func RequireCapability(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Allows(principal.Role, cap) {
			return apperrors.NewForbidden("access denied")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present, regardless of role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
