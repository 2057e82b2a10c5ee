package bundlerec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade(t *testing.T) {
	reg, err := LoadRegistry("examples/registry.yaml")
	require.NoError(t, err)
	rec := NewRecommender(reg)

	bc := BookingContext{Hotel: "Vinpearl Resort & Spa Phú Quốc", Adults: 2, Month: 8, Nights: 2, Origin: "Oversea"}
	recs, err := rec.RankBundles(context.Background(), bc)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"Safari", "Buffet dinner"}, recs[0].Bundle)
	assert.Equal(t, 0.42, recs[0].Prob)

	cands, err := rec.Upsale(context.Background(), bc, []string{"Safari"})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.InDelta(t, 0.42, cands[0].Score, 1e-12)
	assert.Equal(t, []string{"Buffet dinner"}, cands[0].NewItems)
}
