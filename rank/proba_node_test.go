package rank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/feature"
	"github.com/rushteam/bundlerec/model"
	"github.com/rushteam/bundlerec/recall"
	"github.com/rushteam/bundlerec/registry"
)

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) PredictProba(context.Context, []float64) ([]float64, error) {
	return nil, errors.New("unreachable")
}

type observed struct {
	model string
	err   error
}

type recorder struct{ calls []observed }

func (r *recorder) ObserveInference(name string, _ time.Duration, err error) {
	r.calls = append(r.calls, observed{model: name, err: err})
}

var maps = feature.RawMaps{
	Origins: []string{"North"},
	Months:  []string{"2023/6"},
	Kids:    []string{feature.WithoutKid, feature.WithKid},
}

func entry(m model.ProbaModel, bundle ...string) registry.Entry {
	return registry.Entry{
		Hotel:    "H",
		Bundle:   bundle,
		Features: []string{feature.TokenOrigin, feature.TokenArrivalMonth, feature.TokenKid},
		Maps:     maps,
		Model:    m,
	}
}

func recalled(t *testing.T, entries ...registry.Entry) []*core.Item {
	t.Helper()
	reg, err := registry.New(entries)
	require.NoError(t, err)
	bc := &core.BookingContext{Hotel: "H"}
	items, err := (&recall.RegistryRecall{Registry: reg}).Process(context.Background(), bc, nil)
	require.NoError(t, err)
	return items
}

func TestProbaNode_KeepsRegistryOrder(t *testing.T) {
	items := recalled(t,
		entry(model.NewStaticModel("low", 0.1, 0.9), "A"),
		entry(model.NewStaticModel("high", 0.8, 0.2), "B"),
	)
	rec := &recorder{}
	bc := &core.BookingContext{Hotel: "H", Adults: 1, Month: 6, Origin: core.OriginNorth}

	out, err := (&ProbaNode{Observer: rec}).Process(context.Background(), bc, items)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"A"}, out[0].Bundle)
	assert.Equal(t, 0.1, out[0].Prob)
	assert.Equal(t, []string{"B"}, out[1].Bundle)
	assert.Equal(t, 0.8, out[1].Prob)
	assert.Equal(t, "high", out[1].Labels["rank_model"].Value)
	assert.Equal(t, "registry", out[1].Labels["recall_source"].Value)

	require.Len(t, rec.calls, 2)
	assert.NoError(t, rec.calls[0].err)
}

func TestProbaNode_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("model error aborts", func(t *testing.T) {
		rec := &recorder{}
		items := recalled(t, entry(failing{}, "A"), entry(model.NewStaticModel("ok", 0.5, 0.5), "B"))
		bc := &core.BookingContext{Hotel: "H", Month: 6, Origin: core.OriginNorth}
		_, err := (&ProbaNode{Observer: rec}).Process(ctx, bc, items)
		require.Error(t, err)
		assert.True(t, core.IsModelInferenceError(err))
		require.Len(t, rec.calls, 1)
		assert.Error(t, rec.calls[0].err)
	})

	t.Run("origin missing from map", func(t *testing.T) {
		items := recalled(t, entry(model.NewStaticModel("ok", 0.5, 0.5), "A"))
		bc := &core.BookingContext{Hotel: "H", Month: 6, Origin: core.OriginSouth}
		_, err := (&ProbaNode{}).Process(ctx, bc, items)
		assert.True(t, core.IsConfigurationError(err))
	})

	t.Run("item without entry", func(t *testing.T) {
		bc := &core.BookingContext{Hotel: "H", Month: 6, Origin: core.OriginNorth}
		_, err := (&ProbaNode{}).Process(ctx, bc, []*core.Item{core.NewItem([]string{"A"})})
		assert.True(t, core.IsConfigurationError(err))
	})

	t.Run("probability out of range", func(t *testing.T) {
		items := recalled(t, entry(model.NewStaticModel("bad", 1.5, -0.5), "A"))
		bc := &core.BookingContext{Hotel: "H", Month: 6, Origin: core.OriginNorth}
		_, err := (&ProbaNode{}).Process(ctx, bc, items)
		assert.True(t, core.IsModelInferenceError(err))
	})
}
