package middlewares

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyKeys is the storage backend for Idempotency-Key processing,
// wired in main at startup.
var IdempotencyKeys IdempotencyStore

// IdempotencyStore persists the first completed response per key. The
// implementation runs its own short transactions, independent of the
// handler's work.
type IdempotencyStore interface {
	// FindOrCreate returns the stored record for rec.Key, creating a pending
	// one from rec when none exists yet.
	FindOrCreate(ctx context.Context, rec *models.IdempotencyKey) (*models.IdempotencyKey, error)
	// Complete stores the finished response for key.
	Complete(ctx context.Context, key string, status int, contentType string, body []byte) error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods so a
// retried bill submission replays the stored response instead of creating a
// second invoice. Server errors are never stored: a retry after a failed
// save must reach the handler again, not replay the outage.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, err := IdempotencyKeys.FindOrCreate(c.Context(), &models.IdempotencyKey{
			Key:         key,
			RequestHash: reqHash,
			Method:      method,
			Path:        path,
			UserID:      userID,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Completed response stored — short-circuit (no handler run)
			if existing.ContentType != "" {
				c.Set(fiber.HeaderContentType, existing.ContentType)
			}
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// Pending/in-progress: run the handler once; other concurrent calls
		// will see "pending".
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			// Failed saves stay retryable under the same key.
			return nil
		}

		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		_ = IdempotencyKeys.Complete(c.Context(), key, status, string(c.Response().Header.ContentType()), blob)

		return nil
	}
}
