package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"outsite-backend/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 1 * time.Minute
)

// DashboardHandler serves the aggregate statistics, cache-aside through
// redis when a client is configured. Redis being down never fails the
// request; the queries just hit the database.
type DashboardHandler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewDashboardHandler(db *gorm.DB, rdb *redis.Client) *DashboardHandler {
	return &DashboardHandler{DB: db, Redis: rdb}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Redis != nil {
		data, err := h.Redis.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var stats database.DashboardStats
			if err := json.Unmarshal(data, &stats); err == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		} else if err != redis.Nil {
			log.Printf("Redis error (continuing with DB): %v", err)
		}
	}

	stats, err := database.GetDashboardStats(h.DB)
	if err != nil {
		serviceError(c, err)
		return
	}

	if h.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := h.Redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache dashboard stats: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}

// InvalidateAfter is middleware for invoice mutation routes: once the
// handler ran, the cached snapshot is dropped so the dashboard never shows
// stale totals for longer than one request.
func (h *DashboardHandler) InvalidateAfter(c *gin.Context) {
	c.Next()
	if h.Redis == nil {
		return
	}
	if err := h.Redis.Del(c.Request.Context(), dashboardCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate dashboard cache: %v", err)
	}
}
