package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bundlerec/config"
	_ "github.com/rushteam/bundlerec/config/builders"
	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/feature"
	"github.com/rushteam/bundlerec/filter"
	"github.com/rushteam/bundlerec/model"
	"github.com/rushteam/bundlerec/pipeline"
	"github.com/rushteam/bundlerec/registry"
	"github.com/rushteam/bundlerec/rerank"
)

var rawMaps = feature.RawMaps{
	Origins: []string{"North", "South", "Middle", "Oversea"},
	Months:  []string{"2023/1", "2023/2", "2023/3", "2023/4", "2023/5", "2023/6", "2023/7", "2023/8", "2023/9", "2023/10", "2023/11", "2023/12"},
	Kids:    []string{feature.WithKid, feature.WithoutKid},
}

var allFeatures = feature.KnownTokens()

func staticEntry(hotel string, prob float64, bundle ...string) registry.Entry {
	return registry.Entry{
		Hotel:    hotel,
		Bundle:   bundle,
		Features: allFeatures,
		Maps:     rawMaps,
		Model:    model.NewStaticModel("static", prob, 1-prob),
	}
}

func newRecommender(t *testing.T, entries []registry.Entry, opts ...Option) *Recommender {
	t.Helper()
	reg, err := registry.New(entries)
	require.NoError(t, err)
	return NewRecommender(reg, opts...)
}

func booking(hotel string) core.BookingContext {
	return core.BookingContext{
		Hotel: hotel, Adults: 2, Month: 4, Nights: 2, Weekend: true, Origin: core.OriginNorth,
	}
}

type errModel struct{}

func (errModel) Name() string { return "broken" }

func (errModel) PredictProba(context.Context, []float64) ([]float64, error) {
	return nil, errors.New("inference backend down")
}

type recordingModel struct{ got [][]float64 }

func (m *recordingModel) Name() string { return "recording" }

func (m *recordingModel) PredictProba(_ context.Context, v []float64) ([]float64, error) {
	m.got = append(m.got, v)
	return []float64{0.9, 0.1}, nil
}

func TestRankBundles_OnePerEntry(t *testing.T) {
	r := newRecommender(t, []registry.Entry{
		staticEntry("H", 0.2, "Spa"),
		staticEntry("Other", 0.9, "Golf"),
		staticEntry("H", 0.7, "Buffet", "Spa", "Buffet"),
	})

	recs, err := r.RankBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"Spa"}, recs[0].Bundle)
	assert.Equal(t, 0.2, recs[0].Prob)
	assert.Equal(t, []string{"Buffet", "Spa", "Buffet"}, recs[1].Bundle)
	assert.Equal(t, 0.7, recs[1].Prob)
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Prob, 0.0)
		assert.LessOrEqual(t, rec.Prob, 1.0)
	}
}

func TestRankBundles_UnknownHotel(t *testing.T) {
	r := newRecommender(t, []registry.Entry{staticEntry("H", 0.2, "Spa")})
	recs, err := r.RankBundles(context.Background(), booking("nowhere"))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRankBundles_PassesAssembledVector(t *testing.T) {
	m := &recordingModel{}
	r := newRecommender(t, []registry.Entry{{
		Hotel:    "H",
		Bundle:   []string{"Spa"},
		Features: []string{feature.TokenLOSGroup, feature.TokenArrivalMonth, feature.TokenKid, feature.TokenWeekend},
		Maps:     rawMaps,
		Model:    m,
	}})

	recs, err := r.RankBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.9, recs[0].Prob)
	assert.Equal(t, [][]float64{{1, 3, 1, 1}}, m.got)
}

func TestRankBundles_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("model failure aborts call", func(t *testing.T) {
		broken := staticEntry("H", 0.5, "Golf")
		broken.Model = errModel{}
		r := newRecommender(t, []registry.Entry{staticEntry("H", 0.5, "Spa"), broken})
		_, err := r.RankBundles(ctx, booking("H"))
		require.Error(t, err)
		assert.True(t, core.IsModelInferenceError(err))
	})

	t.Run("month missing from entry map", func(t *testing.T) {
		e := staticEntry("H", 0.5, "Spa")
		e.Maps.Months = []string{"2023/1"}
		r := newRecommender(t, []registry.Entry{e})
		_, err := r.RankBundles(ctx, booking("H"))
		require.Error(t, err)
		assert.True(t, core.IsConfigurationError(err))
	})

	t.Run("invalid origin", func(t *testing.T) {
		r := newRecommender(t, []registry.Entry{staticEntry("H", 0.5, "Spa")})
		bc := booking("H")
		bc.Origin = "Midle"
		_, err := r.RankBundles(ctx, bc)
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("invalid month", func(t *testing.T) {
		r := newRecommender(t, []registry.Entry{staticEntry("H", 0.5, "Spa")})
		bc := booking("H")
		bc.Month = 13
		_, err := r.RankBundles(ctx, bc)
		assert.True(t, core.IsValidationError(err))
	})
}

func TestTopBundles(t *testing.T) {
	r := newRecommender(t, []registry.Entry{
		staticEntry("H", 0.2, "A"),
		staticEntry("H", 0.9, "B"),
		staticEntry("H", 0.5, "C"),
	})
	recs, err := r.TopBundles(context.Background(), booking("H"), 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"B"}, recs[0].Bundle)
	assert.Equal(t, []string{"C"}, recs[1].Bundle)
}

func TestUpsale_Examples(t *testing.T) {
	ctx := context.Background()
	r := newRecommender(t, []registry.Entry{staticEntry("H", 0.6, "A", "B", "C")})

	got, err := r.Upsale(ctx, booking("H"), []string{"A", "D"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.6, got[0].Score, 1e-12)
	assert.Equal(t, []string{"A", "B", "C"}, got[0].Bundle)
	assert.Equal(t, []string{"B", "C"}, got[0].NewItems)

	got, err = r.Upsale(ctx, booking("H"), []string{"C", "A", "B"})
	require.NoError(t, err)
	assert.Empty(t, got, "self-match must be excluded")

	got, err = r.Upsale(ctx, booking("H"), []string{"D", "E"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsale_AdditivityAndOrdering(t *testing.T) {
	r := newRecommender(t, []registry.Entry{
		staticEntry("H", 0.5, "A", "X"),           // k=1 -> 0.5
		staticEntry("H", 0.3, "A", "B", "C"),      // k=3 -> 0.9
		staticEntry("H", 0.4, "B", "C", "Y"),      // k=2 -> 0.8
		staticEntry("H", 0.99, "Z"),               // k=0 -> dropped
		staticEntry("H", 0.8, "A", "B", "C", "A"), // set == bought -> dropped
		staticEntry("H", 0.0, "A"),                // prob 0 -> score 0 -> dropped
	})

	got, err := r.Upsale(context.Background(), booking("H"), []string{"A", "B", "C", "A"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"A", "B", "C"}, got[0].Bundle)
	assert.InDelta(t, 3*0.3, got[0].Score, 1e-12)
	assert.Equal(t, []string{"B", "C", "Y"}, got[1].Bundle)
	assert.InDelta(t, 2*0.4, got[1].Score, 1e-12)
	assert.Equal(t, []string{"A", "X"}, got[2].Bundle)
	assert.InDelta(t, 0.5, got[2].Score, 1e-12)

	for i := range got {
		assert.Greater(t, got[i].Score, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
		}
	}
}

func TestUpsale_TiesKeepRegistryOrder(t *testing.T) {
	r := newRecommender(t, []registry.Entry{
		staticEntry("H", 0.5, "A", "first"),
		staticEntry("H", 0.5, "A", "second"),
	})
	got, err := r.Upsale(context.Background(), booking("H"), []string{"A"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"A", "first"}, got[0].Bundle)
	assert.Equal(t, []string{"A", "second"}, got[1].Bundle)
}

func TestUpsale_PropagatesErrors(t *testing.T) {
	broken := staticEntry("H", 0.5, "A")
	broken.Model = errModel{}
	r := newRecommender(t, []registry.Entry{broken})
	_, err := r.Upsale(context.Background(), booking("H"), []string{"A"})
	assert.True(t, core.IsModelInferenceError(err))
}

func TestPostPipeline(t *testing.T) {
	keep, err := filter.NewExprFilter(`!("Golf" in item.bundle)`)
	require.NoError(t, err)
	post := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.FilterNode{Filters: []filter.Filter{keep}},
		&rerank.SortNode{By: rerank.SortByProb},
		&rerank.TopNNode{N: 2},
	}}
	r := newRecommender(t, []registry.Entry{
		staticEntry("H", 0.1, "A", "Golf"),
		staticEntry("H", 0.2, "A", "B"),
		staticEntry("H", 0.3, "A", "C"),
		staticEntry("H", 0.25, "A", "B", "C"),
	}, WithPostPipeline(post))

	recs, err := r.RankBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	require.Len(t, recs, 4, "one recommendation per entry")
	assert.Equal(t, []string{"A", "Golf"}, recs[0].Bundle)
	assert.Equal(t, []string{"A", "B", "C"}, recs[3].Bundle)

	curated, err := r.CuratedBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	require.Len(t, curated, 2)
	assert.Equal(t, 0.3, curated[0].Prob)
	assert.Equal(t, 0.25, curated[1].Prob)

	got, err := r.Upsale(context.Background(), booking("H"), []string{"A", "B"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 0.5, got[0].Score, 1e-12)
	assert.InDelta(t, 0.3, got[1].Score, 1e-12)
	assert.InDelta(t, 0.1, got[2].Score, 1e-12)
}

func TestPostPipeline_ExampleConfig(t *testing.T) {
	post, err := config.LoadPipeline(filepath.Join("..", "examples", "pipeline.yaml"))
	require.NoError(t, err)

	entries := []registry.Entry{staticEntry("H", 0.3, "A", "B", "Q")}
	for i := 1; i <= 10; i++ {
		entries = append(entries, staticEntry("H", 0.55, "A", fmt.Sprintf("c%d", i)))
	}
	entries = append(entries, staticEntry("H", 0.01, "Z"))
	r := newRecommender(t, entries, WithPostPipeline(post))
	ctx := context.Background()

	recs, err := r.RankBundles(ctx, booking("H"))
	require.NoError(t, err)
	assert.Len(t, recs, 12)

	curated, err := r.CuratedBundles(ctx, booking("H"))
	require.NoError(t, err)
	assert.Len(t, curated, 10)

	got, err := r.Upsale(ctx, booking("H"), []string{"A", "B"})
	require.NoError(t, err)
	require.Len(t, got, 11)
	assert.Equal(t, []string{"A", "B", "Q"}, got[0].Bundle)
	assert.InDelta(t, 0.6, got[0].Score, 1e-12)
	for _, c := range got[1:] {
		assert.InDelta(t, 0.55, c.Score, 1e-12)
	}
}

func TestCuratedBundles_WithoutPostPipeline(t *testing.T) {
	r := newRecommender(t, []registry.Entry{staticEntry("H", 0.2, "A"), staticEntry("H", 0.9, "B")})
	curated, err := r.CuratedBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	recs, err := r.RankBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	assert.Equal(t, recs, curated)
}

func TestRankBundles_EmptyHotel(t *testing.T) {
	r := newRecommender(t, []registry.Entry{staticEntry("H", 0.2, "A")})
	bc := booking("")
	recs, err := r.RankBundles(context.Background(), bc)
	require.NoError(t, err)
	assert.Empty(t, recs)

	got, err := r.Upsale(context.Background(), bc, []string{"A"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := newRecommender(t, []registry.Entry{staticEntry("H", 0.5, "A")}, WithMetrics(m))

	_, err := r.RankBundles(context.Background(), booking("H"))
	require.NoError(t, err)
	bad := booking("H")
	bad.Month = 0
	_, _ = r.RankBundles(context.Background(), bad)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(OpRank, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(OpRank, core.ErrorCodeValidation)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Inference))
}

func TestBoughtItems(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "B", "C"}, BoughtItems([][]string{{"A", "B"}, {"B", "C"}}))
	assert.Empty(t, BoughtItems(nil))
}
