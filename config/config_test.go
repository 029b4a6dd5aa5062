package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsMatchSpecTable(t *testing.T) {
	tun := Defaults()
	assert.EqualValues(t, 60, tun.Throttle)
	assert.Equal(t, 0.1, tun.ConnectionTolerance)
	assert.Equal(t, 5.0, tun.BandWidth)
	assert.Equal(t, 0.3, tun.Politeness)
	assert.Equal(t, 0.1, tun.LateralADefault)
	assert.Equal(t, 0.3, tun.LateralEvasion)
	assert.Equal(t, 12.0, tun.LateralSpeedCapDivisor)
	assert.Equal(t, 400.0, tun.InConstructionRate)
}
