package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"skillswap/internal/core/services"
)

// parseBody decodes the JSON request body into a field map for validation.
// An empty body yields an empty map so required-field rules still fire.
func parseBody(c *fiber.Ctx) (map[string]interface{}, error) {
	body := map[string]interface{}{}
	raw := c.Body()
	if len(raw) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// paramID parses the :id route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// actorID returns the authenticated principal ID set by the auth middleware
func actorID(c *fiber.Ctx) uint {
	id, _ := c.Locals("actorID").(uint)
	return id
}

// isAdmin reports whether the principal is an admin
func isAdmin(c *fiber.Ctx) bool {
	admin, _ := c.Locals("isAdmin").(bool)
	return admin
}

// requestMeta captures the caller address for the audit trail
func requestMeta(c *fiber.Ctx) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}

// bodyString reads an optional string field from a parsed body
func bodyString(body map[string]interface{}, field string) string {
	if s, ok := body[field].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// bodyStringPtr reads an optional string field, nil when absent
func bodyStringPtr(body map[string]interface{}, field string) *string {
	if val, ok := body[field]; ok && val != nil {
		if s, ok := val.(string); ok {
			trimmed := strings.TrimSpace(s)
			return &trimmed
		}
	}
	return nil
}

// bodyInt reads an optional numeric field; JSON numbers arrive as float64
func bodyInt(body map[string]interface{}, field string) (int, bool) {
	switch n := body[field].(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// bodyIntPtr reads an optional numeric field, nil when absent
func bodyIntPtr(body map[string]interface{}, field string) *int {
	if n, ok := bodyInt(body, field); ok {
		return &n
	}
	return nil
}

// bodyUintPtr reads an optional id field, nil when absent or non-positive
func bodyUintPtr(body map[string]interface{}, field string) *uint {
	if n, ok := bodyInt(body, field); ok && n > 0 {
		u := uint(n)
		return &u
	}
	return nil
}

// bodyBoolPtr reads an optional boolean field, nil when absent
func bodyBoolPtr(body map[string]interface{}, field string) *bool {
	if val, ok := body[field]; ok && val != nil {
		if b, ok := val.(bool); ok {
			return &b
		}
	}
	return nil
}
