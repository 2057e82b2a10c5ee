package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/bundlerec/core"
)

func TestBuildCategoryMaps(t *testing.T) {
	maps, err := BuildCategoryMaps(RawMaps{
		Origins: []string{"South", "North", "Oversea", "Middle"},
		Months:  []string{"2023/4", "2023/12", "2024/4", "2024/1"},
		Kids:    []string{WithoutKid, WithKid},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		get  func() (int, error)
		want int
	}{
		{"origin first seen gets 0", func() (int, error) { return maps.Origin("South") }, 0},
		{"origin list order", func() (int, error) { return maps.Origin("Middle") }, 3},
		{"month first occurrence", func() (int, error) { return maps.Month(4) }, 0},
		{"month duplicate keeps first index", func() (int, error) { return maps.Month(12) }, 1},
		{"month after duplicate", func() (int, error) { return maps.Month(1) }, 2},
		{"kid without", func() (int, error) { return maps.Kid(WithoutKid) }, 0},
		{"kid with", func() (int, error) { return maps.Kid(WithKid) }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryMaps_Miss(t *testing.T) {
	maps, err := BuildCategoryMaps(RawMaps{
		Origins: []string{"North"},
		Months:  []string{"x/1"},
		Kids:    []string{WithKid},
	})
	require.NoError(t, err)

	_, err = maps.Origin("Oversea")
	assert.True(t, core.IsConfigurationError(err))
	_, err = maps.Month(7)
	assert.True(t, core.IsConfigurationError(err))
	_, err = maps.Kid(WithoutKid)
	assert.True(t, core.IsConfigurationError(err))
}

func TestParseMonthToken(t *testing.T) {
	m, err := ParseMonthToken("2023-01-01/11")
	require.NoError(t, err)
	assert.Equal(t, 11, m)

	m, err = ParseMonthToken("a/b/3")
	require.NoError(t, err)
	assert.Equal(t, 3, m)

	for _, tok := range []string{"11", "x/", "x/eleven"} {
		_, err := ParseMonthToken(tok)
		assert.Truef(t, core.IsConfigurationError(err), "token %q", tok)
	}
}

func TestBuildCategoryMaps_MalformedMonth(t *testing.T) {
	_, err := BuildCategoryMaps(RawMaps{Months: []string{"x/1", "bad"}})
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}
