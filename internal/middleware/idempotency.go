package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for a repeated POST carrying
// the same Idempotency-Key, and rejects a concurrent duplicate while
// the first attempt is still in flight. Without a key the request
// passes through untouched.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		schoolID := c.GetString("school_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), schoolID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached json.RawMessage
			if json.Unmarshal([]byte(val), &cached) == nil {
				c.Header("X-Idempotent-Replay", "true")
				c.Data(http.StatusOK, "application/json", cached)
				c.Abort()
				return
			}
		}

		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "a request with this idempotency key is already in progress",
			})
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		ctx := c.Request.Context()
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			rdb.Set(ctx, cacheKey, capture.buf.String(), idempotencyCacheTTL)
		}
		rdb.Del(ctx, lockKey)
	}
}
