package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bundlerec/core"
	"github.com/rushteam/bundlerec/pkg/utils"
)

func TestProgram_Eval(t *testing.T) {
	item := core.NewItem([]string{"Spa", "Kids club", "Spa"})
	item.Prob = 0.42
	item.PutLabel("rank_model", utils.Label{Value: "logistic", Source: "rank"})
	bctx := &core.BookingContext{Hotel: "H", Adults: 2, Children: 1, Month: 6, Nights: 3, Origin: "Oversea"}

	tests := []struct {
		expr string
		want bool
	}{
		{`item.prob >= 0.4`, true},
		{`item.prob > 0.5`, false},
		{`"Kids club" in item.bundle`, true},
		{`item.size == 2`, true},
		{`label.rank_model == "logistic"`, true},
		{`booking.origin == "Oversea" && booking.children + booking.infants > 0`, true},
		{`booking.weekend`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := prg.Eval(item, bctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgram_Errors(t *testing.T) {
	_, err := Compile(`item.prob >=`)
	assert.Error(t, err)

	prg, err := Compile(`item.prob`)
	require.NoError(t, err)
	_, err = prg.Eval(core.NewItem(nil), nil)
	assert.Error(t, err)
}
