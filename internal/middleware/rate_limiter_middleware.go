package middleware

import (
	"time"

	"github.com/fadilmartias/talent-assessment/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        expiration,
		LimitReached:      tooManyRequests,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

func tooManyRequests(c *fiber.Ctx) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusTooManyRequests,
		Message: "Too many requests, please try again later",
	})
}
