package controller

import (
	"net/http"
	"quizgen_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	Redis *redis.Client // nil when the memory session store is used
}

func NewHealthController(redisClient *redis.Client) *HealthController {
	return &HealthController{Redis: redisClient}
}

// @Summary Health check
// @Description Reports service status and session store reachability
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	store := "memory"
	if c.Redis != nil {
		store = "redis"
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Session store unavailable")
			return
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"sessionStore": store,
		},
	})
}
