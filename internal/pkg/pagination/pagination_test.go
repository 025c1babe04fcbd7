package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, target string, maxPerPage int) *Params {
	t.Helper()

	var got *Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c, maxPerPage)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestGetParamsDefaults(t *testing.T) {
	p := paramsFor(t, "/", 100)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestGetParamsOffset(t *testing.T) {
	p := paramsFor(t, "/?page=3&per_page=10", 100)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestGetParamsClampsBadInput(t *testing.T) {
	p := paramsFor(t, "/?page=-2&per_page=5000", 100)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, PerPage: 10}, 25)

	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, int64(25), meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestGetMetaEdges(t *testing.T) {
	first := GetMeta(&Params{Page: 1, PerPage: 10}, 25)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	last := GetMeta(&Params{Page: 3, PerPage: 10}, 25)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)

	empty := GetMeta(&Params{Page: 1, PerPage: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
