package adminController

import (
	"wordquest/middleware"
	"wordquest/services"
	adminValidator "wordquest/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// UnlockLevel opens any level for a user, skipping the sequential gate
func UnlockLevel(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedUnlock").(*adminValidator.UnlockRequest)

		result, err := engine.Levels.UnlockSpecificLevel(c.UserContext(), reqData.UserID, reqData.LevelNumber)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", result)
	}
}

func GrantReward(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedGrant").(*adminValidator.GrantRequest)
		ctx := c.UserContext()

		grants := make([]*services.RewardGrant, 0, 2)
		if reqData.XP > 0 {
			g, err := engine.Rewards.AddXP(ctx, reqData.UserID, reqData.XP, reqData.Reason)
			if err != nil {
				return middleware.ServiceError(c, err)
			}
			grants = append(grants, g)
		}
		if reqData.Coins > 0 {
			g, err := engine.Rewards.AddCoins(ctx, reqData.UserID, reqData.Coins, reqData.Reason)
			if err != nil {
				return middleware.ServiceError(c, err)
			}
			grants = append(grants, g)
		}
		return middleware.SuccessResponse(c, "result", grants)
	}
}

func ResetStreak(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("targetUserId").(uint)
		if err := engine.Rewards.ResetStreak(c.UserContext(), userID); err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", fiber.Map{"userId": userID, "streakDays": 0})
	}
}
