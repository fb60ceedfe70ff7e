package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwerk/orgmatch/internal/logging"
)

func TestExactResolver_CaseInsensitive(t *testing.T) {
	r := NewExactResolver(logging.NewTestLogger().Zap())
	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag"}}

	match := r.Match([]string{"SPIEGEL VERLAG"}, pool)
	require.NotNil(t, match)
	assert.Equal(t, "c1", match.CompanyID)
	assert.Equal(t, "Spiegel Verlag", match.CompanyName)
	assert.Equal(t, TierHigh, match.Confidence)
	assert.Equal(t, MethodExactMatch, match.Method)
}

func TestExactResolver_FirstMatchWins(t *testing.T) {
	r := NewExactResolver(logging.NewTestLogger().Zap())
	pool := []PoolCompany{
		{ID: "c1", Name: "Zeit Verlag"},
		{ID: "c2", Name: "Spiegel Verlag"},
	}

	match := r.Match([]string{"Nope", "spiegel verlag", "zeit verlag"}, pool)
	require.NotNil(t, match)
	assert.Equal(t, "c2", match.CompanyID, "first signal name with a pool hit wins")
}

func TestExactResolver_NoSubstringMatching(t *testing.T) {
	r := NewExactResolver(logging.NewTestLogger().Zap())
	pool := []PoolCompany{{ID: "c1", Name: "Spiegel Verlag GmbH"}}

	assert.Nil(t, r.Match([]string{"Spiegel Verlag"}, pool))
}

func TestExactResolver_EmptyInputs(t *testing.T) {
	r := NewExactResolver(logging.NewTestLogger().Zap())
	assert.Nil(t, r.Match(nil, []PoolCompany{{ID: "c1", Name: "X"}}))
	assert.Nil(t, r.Match([]string{""}, []PoolCompany{{ID: "c1", Name: ""}}))
}
