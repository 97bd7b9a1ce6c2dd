package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports, per queue, how many
// jobs are parked and which invoice the latest one belongs to.
// Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		dlq := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			for _, q := range []string{worker.QueueDocuments, worker.QueueEmail} {
				n, err := worker.DLQLength(ctx, rdb, q)
				if err != nil {
					continue
				}
				entry := gin.H{"count": n}
				if latest, err := worker.LatestFailed(ctx, rdb, q); err == nil && latest != nil {
					entry["latest"] = gin.H{
						"type":       latest.Type,
						"invoice_id": latest.InvoiceID,
						"attempts":   latest.Attempts,
						"failed_at":  latest.FailedAt,
					}
				}
				dlq[q] = entry
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"dead_letter": dlq,
		})
	}
}
