package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	startedAtKey    = "request_started_at"
)

// ResponseMeta collects per-request metadata such as cache hits for the response envelope.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startedAtKey, time.Now())
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if meta := rawMeta(c); meta != nil {
		meta["cache_hit"] = hit
	}
}

// Meta returns the request metadata with processing_time_ms filled in, or nil when ResponseMeta is not installed.
func Meta(c *gin.Context) map[string]interface{} {
	meta := rawMeta(c)
	if meta == nil {
		return nil
	}
	if started, ok := c.Get(startedAtKey); ok {
		if at, ok := started.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(at).Milliseconds()
		}
	}
	return meta
}

func rawMeta(c *gin.Context) map[string]interface{} {
	value, exists := c.Get(responseMetaKey)
	if !exists {
		return nil
	}
	meta, _ := value.(map[string]interface{})
	return meta
}
