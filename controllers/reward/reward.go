package rewardController

import (
	"wordquest/middleware"
	"wordquest/services"
	rewardValidator "wordquest/validators/reward"

	"github.com/gofiber/fiber/v2"
)

func GetRewards(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := engine.Rewards.GetSummary(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "rewards", summary)
	}
}

func GetHistory(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		history, err := engine.Rewards.GetHistory(c.UserContext(), middleware.UserID(c), c.Locals("historyLimit").(int))
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "history", history)
	}
}

// SpendCoins answers 422 when the balance is too low
func SpendCoins(engine *services.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedSpend").(*rewardValidator.SpendRequest)
		userID := middleware.UserID(c)

		ok, err := engine.Rewards.DeductCoins(c.UserContext(), userID, reqData.Amount, reqData.Reason)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		if !ok {
			return middleware.ServiceError(c, services.ErrInsufficientCoins)
		}

		summary, err := engine.Rewards.GetSummary(c.UserContext(), userID)
		if err != nil {
			return middleware.ServiceError(c, err)
		}
		return middleware.SuccessResponse(c, "result", fiber.Map{
			"spent": reqData.Amount,
			"coins": summary.Coins,
		})
	}
}
