package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripveda/flightdesk/internal/models"
)

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()
	req := models.SearchRequest{From: "DEL", To: "BOM", DepartDate: "2025-09-01"}

	require.NoError(t, c.Set(ctx, req, []models.Flight{{TotalPrice: "5000"}}))
	_, found := c.Get(ctx, req)
	assert.False(t, found)
	assert.NoError(t, c.Close())
}

func TestSearchKeyDeterministic(t *testing.T) {
	req := models.SearchRequest{
		TripType:   models.TripRoundTrip,
		From:       "DEL",
		To:         "BOM",
		DepartDate: "2025-09-01",
		ReturnDate: "2025-09-05",
		Adults:     2,
	}
	assert.Equal(t, searchKey(req), searchKey(req))
	assert.Contains(t, searchKey(req), "search:")
}

func TestSearchKeySensitivity(t *testing.T) {
	base := models.SearchRequest{
		TripType:   models.TripOneWay,
		From:       "DEL",
		To:         "BOM",
		DepartDate: "2025-09-01",
		Adults:     1,
	}

	changed := base
	changed.DepartDate = "2025-09-02"
	assert.NotEqual(t, searchKey(base), searchKey(changed))

	changed = base
	changed.Adults = 2
	assert.NotEqual(t, searchKey(base), searchKey(changed))

	changed = base
	changed.CurrencyCode = "USD"
	assert.NotEqual(t, searchKey(base), searchKey(changed))

	changed = base
	changed.Segments = []models.Segment{{From: "DEL", To: "BOM", Date: "2025-09-01"}}
	assert.NotEqual(t, searchKey(base), searchKey(changed))
}
