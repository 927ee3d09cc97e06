package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedReply is the cached outcome of a previously seen mutating request.
type storedReply struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type replyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *replyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for repeated mutating requests
// carrying the same Idempotency-Key header. Status transitions and payment
// writes from the dashboard retry on flaky connections, so the second
// attempt must not run the transition twice.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + key

		data, err := rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var reply storedReply
			if json.Unmarshal(data, &reply) == nil {
				c.Data(reply.StatusCode, reply.ContentType, reply.Body)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			// Redis down is not a reason to reject the request
			c.Next()
			return
		}

		rec := &replyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			reply := storedReply{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if encoded, err := json.Marshal(reply); err == nil {
				_ = rdb.Set(ctx, cacheKey, encoded, idempotencyTTL).Err()
			}
		}
	}
}
