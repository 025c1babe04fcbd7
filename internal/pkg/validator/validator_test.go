package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	v := New(map[string]interface{}{
		"username": "alice",
		"blank":    "   ",
		"null":     nil,
	})
	v.Required("username").Required("blank").Required("null").Required("missing")

	assert.True(t, v.Fails())
	errs := v.Errors()
	assert.NotContains(t, errs, "username")
	assert.Equal(t, "blank is required", errs["blank"])
	assert.Equal(t, "null is required", errs["null"])
	assert.Equal(t, "missing is required", errs["missing"])
}

func TestFirstFailureWins(t *testing.T) {
	v := New(map[string]interface{}{"password": "ab"})
	v.Required("password").MinLength("password", 8).MaxLength("password", 1)

	assert.True(t, v.Fails())
	assert.Equal(t, "password must be at least 8 characters", v.Errors()["password"])
	assert.Len(t, v.Errors(), 1)
}

func TestAbsentFieldSkipsNonRequiredRules(t *testing.T) {
	v := New(map[string]interface{}{})
	v.Email("email").MinLength("bio", 10).In("status", "active").Min("coins", 1)

	assert.True(t, v.Passes())
	assert.Empty(t, v.Errors())
}

func TestEmail(t *testing.T) {
	ok := New(map[string]interface{}{"email": "alice@example.com"})
	assert.True(t, ok.Email("email").Passes())

	bad := New(map[string]interface{}{"email": "not-an-email"})
	assert.True(t, bad.Email("email").Fails())

	notString := New(map[string]interface{}{"email": 42.0})
	assert.True(t, notString.Email("email").Fails())
}

func TestNumericAndInteger(t *testing.T) {
	v := New(map[string]interface{}{
		"coins":  float64(25), // decoded JSON number
		"price":  "100",
		"budget": 10.5,
		"title":  "hello",
	})
	v.Integer("coins").Numeric("price").Integer("budget").Numeric("title")

	errs := v.Errors()
	assert.NotContains(t, errs, "coins")
	assert.NotContains(t, errs, "price")
	assert.Equal(t, "budget must be an integer", errs["budget"])
	assert.Contains(t, errs, "title")
}

func TestInAndBounds(t *testing.T) {
	v := New(map[string]interface{}{
		"status":   "frozen",
		"priority": "high",
		"coins":    float64(0),
	})
	v.In("status", "active", "suspended", "banned").
		In("priority", "low", "medium", "high").
		Min("coins", 1)

	errs := v.Errors()
	assert.Equal(t, "status must be one of: active, suspended, banned", errs["status"])
	assert.NotContains(t, errs, "priority")
	assert.Contains(t, errs, "coins")
}

func TestDate(t *testing.T) {
	ok := New(map[string]interface{}{"deadline": "2026-12-31"})
	assert.True(t, ok.Date("deadline", "2006-01-02").Passes())

	bad := New(map[string]interface{}{"deadline": "31/12/2026"})
	assert.True(t, bad.Date("deadline", "2006-01-02").Fails())
}

func TestCustom(t *testing.T) {
	v := New(map[string]interface{}{"tags": "a,b,c"})
	v.Custom("tags", func(val interface{}) bool {
		s, ok := val.(string)
		return ok && len(s) > 10
	}, "tags is too short")

	assert.Equal(t, "tags is too short", v.Errors()["tags"])
}
