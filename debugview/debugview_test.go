package debugview

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"lanesim/actorsys"
	"lanesim/geom/ordered"
	"lanesim/lane"
	"lanesim/obstacle"
)

func TestDumpLanesRendersOneRulerPerLane(t *testing.T) {
	snaps := []lane.LaneSnapshot{
		{
			ID:      actorsys.ID{Kind: "lane", InstanceID: 0},
			Length:  100,
			NumCars: 1,
			Cars: []obstacle.LaneCar{
				{Obstacle: obstacle.Obstacle{Position: ordered.New(50), Velocity: 5, MaxVelocity: 20}},
			},
		},
	}

	var buf bytes.Buffer
	DumpLanes(&buf, snaps)

	out := buf.String()
	assert.Contains(t, out, "lane lane#0")
	assert.Contains(t, out, "*")
}

func TestRulerMarksCoincidingCarsWithHash(t *testing.T) {
	line := ruler(100, []float64{50, 50.4})
	assert.Contains(t, line, "#")
}
