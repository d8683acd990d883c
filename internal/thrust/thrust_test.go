package thrust_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	assert.Equal(t, 2.0, thrust.Convert(32, thrust.OZF, thrust.LBF))
	assert.Equal(t, 32.0, thrust.Convert(2, thrust.LBF, thrust.OZF))
	assert.Equal(t, 7.5, thrust.Convert(7.5, thrust.OZF, thrust.OZF))
	assert.Equal(t, 7.5, thrust.Convert(7.5, thrust.LBF, thrust.LBF))
	assert.Equal(t, 0.0, thrust.Convert(0, thrust.OZF, thrust.LBF))
	assert.Equal(t, -1.0, thrust.Convert(-16, thrust.OZF, thrust.LBF))
}

func TestConvertRoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.1, 1e-12, 123456.789, -98765.4321, 1e300, math.MaxFloat64 / 32}
	for _, v := range values {
		got := thrust.Convert(thrust.Convert(v, thrust.OZF, thrust.LBF), thrust.LBF, thrust.OZF)
		if v == 0 {
			assert.Equal(t, v, got)
			continue
		}
		assert.InEpsilon(t, v, got, 1e-9, "value %g", v)
	}
}

func TestConvertSeries(t *testing.T) {
	orig := thrust.NewSeries([]thrust.Sample{{Time: 0, Thrust: 16}, {Time: 0.5, Thrust: 32}, {Time: 1, Thrust: -8}}, thrust.OZF)

	lbf := thrust.ConvertSeries(orig, thrust.OZF, thrust.LBF)
	assert.Equal(t, thrust.LBF, lbf.Unit())
	assert.Equal(t, []float64{1, 2, -0.5}, lbf.Thrusts())
	assert.Equal(t, orig.Times(), lbf.Times())

	// the source must not be modified
	assert.Equal(t, thrust.OZF, orig.Unit())
	assert.Equal(t, []float64{16, 32, -8}, orig.Thrusts())

	back := lbf.In(thrust.OZF)
	assert.Equal(t, orig, back)
}

func TestNewSeriesCopies(t *testing.T) {
	samples := []thrust.Sample{{Time: 0, Thrust: 1}}
	s := thrust.NewSeries(samples, thrust.OZF)
	samples[0].Thrust = 99

	assert.Equal(t, 1.0, s.At(0).Thrust)

	out := s.Samples()
	out[0].Thrust = 42
	assert.Equal(t, 1.0, s.At(0).Thrust)
}

func TestZeroSeries(t *testing.T) {
	var s thrust.Series
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, thrust.OZF, s.Unit())
	assert.Empty(t, s.Thrusts())
	assert.Equal(t, 0, s.In(thrust.LBF).Len())
}

func TestParseUnit(t *testing.T) {
	u, err := thrust.ParseUnit("LBF")
	require.NoError(t, err)
	assert.Equal(t, thrust.LBF, u)
	assert.Equal(t, "lbf", u.String())

	u, err = thrust.ParseUnit(" ozf ")
	require.NoError(t, err)
	assert.Equal(t, thrust.OZF, u)

	_, err = thrust.ParseUnit("N")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidUnit))
}
