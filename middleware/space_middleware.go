package middleware

import (
	authutils "estate-office-backend/lib/utils/auth-utils"
	"estate-office-backend/models"
	apimodels "estate-office-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserSpace(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if space, exist := claims["space"]; exist {
		return space.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

// GetStaffID - идентификатор профиля сотрудника из токена;
// пустой у администраторов без профиля
func GetStaffID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if staff, exist := claims["staff"]; exist {
		if stringStaff, ok := staff.(string); ok {
			return stringStaff
		}
	}
	return ""
}

func GetSpaceRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func SpaceAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if GetSpaceRole(ctx) != models.SpaceAdminRole {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}

func ElevatedRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetSpaceRole(ctx).IsElevated() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
