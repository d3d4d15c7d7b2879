package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	s, err := NewService()
	require.NoError(t, err)
	assert.Greater(t, s.AirlineCount(), 0)
}

func TestAirlineName(t *testing.T) {
	s, err := NewService()
	require.NoError(t, err)

	assert.Equal(t, "Air India", s.AirlineName("AI"))
	assert.Equal(t, "Air India", s.AirlineName("ai"))
	// unknown carriers fall back to the code
	assert.Equal(t, "ZZ", s.AirlineName("ZZ"))
}

func TestAirlineIcon(t *testing.T) {
	s, err := NewService()
	require.NoError(t, err)

	assert.Contains(t, s.AirlineIcon("AI"), "airlines_AI")
	assert.Equal(t,
		"https://content.airhex.com/content/logos/airlines_ZZ_75_75_s.png",
		s.AirlineIcon("zz"))
}

func TestAirport(t *testing.T) {
	s, err := NewService()
	require.NoError(t, err)

	del, ok := s.Airport("del")
	require.True(t, ok)
	assert.Equal(t, "DEL", del.Code)
	assert.Equal(t, "New Delhi", del.City)

	_, ok = s.Airport("XXX")
	assert.False(t, ok)
}
