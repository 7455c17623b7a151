package security

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// AIQuotaLimiter 按用户限制 AI 生成接口的调用次数
// 计数存放在 Redis，窗口首个请求写入计数并设置过期时间，多实例部署时共享同一配额
// 未登录请求（无 userID）退化为按 IP 计数
func AIQuotaLimiter(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		var key string
		if userID, exists := c.Get("userID"); exists {
			key = fmt.Sprintf("ai_quota:user:%v", userID)
		} else {
			key = fmt.Sprintf("ai_quota:ip:%s", c.ClientIP())
		}

		ctx := c.Request.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis 不可用时放行，避免缓存故障拖垮主流程
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(maxRequests) {
			ttl, _ := rdb.TTL(ctx, key).Result()
			c.Header("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "AI 生成次数已达上限，请稍后再试",
			})
			return
		}

		c.Next()
	}
}
