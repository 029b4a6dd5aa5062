// Package debugview renders plain-text ASCII dumps of the lane network's
// current state, in the spirit of grid_world.go's ShowGrid/ShowMaxValues
// console dumps, generalized from a fixed 2-D grid to an arbitrary
// collection of lanes and transfer lanes and from stdout to an io.Writer so
// it can be served over HTTP (telemetry's /debug/lanes) as well as used from
// tests.
package debugview

import (
	"fmt"
	"io"
	"sort"

	"lanesim/lane"
	"lanesim/transferlane"
)

const rulerWidth = 60

// DumpLanes writes one ruler line per lane: a fixed-width line representing
// [0, length], with a car marker '*' placed proportionally to its position,
// and '#' where two or more cars coincide within the same character cell.
func DumpLanes(w io.Writer, snaps []lane.LaneSnapshot) {
	sorted := make([]lane.LaneSnapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.String() < sorted[j].ID.String() })

	for _, snap := range sorted {
		fmt.Fprintf(w, "lane %s  length=%.1f  cars=%d\n", snap.ID.String(), snap.Length, snap.NumCars)
		fmt.Fprintln(w, ruler(snap.Length, positionsOf(snap)))
	}
}

// DumpTransferLanes writes one ruler line per transfer lane, annotated with
// each car's lateral transfer_position in addition to its longitudinal
// marker.
func DumpTransferLanes(w io.Writer, snaps []transferlane.Snapshot) {
	sorted := make([]transferlane.Snapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.String() < sorted[j].ID.String() })

	for _, snap := range sorted {
		fmt.Fprintf(w, "transfer %s  length=%.1f  cars=%d\n", snap.ID.String(), snap.Length, snap.NumCars)
		positions := make([]float64, len(snap.Cars))
		for i, car := range snap.Cars {
			positions[i] = car.Position.Value()
		}
		fmt.Fprintln(w, ruler(snap.Length, positions))
		for _, car := range snap.Cars {
			fmt.Fprintf(w, "  car trip=%s transfer_position=%+.2f\n", car.Trip.String(), car.TransferPosition)
		}
	}
}

func positionsOf(snap lane.LaneSnapshot) []float64 {
	out := make([]float64, len(snap.Cars))
	for i, car := range snap.Cars {
		out[i] = car.Position.Value()
	}
	return out
}

// ruler renders a rulerWidth-character line representing [0, length], with
// a marker at each position's proportional offset.
func ruler(length float64, positions []float64) string {
	line := make([]byte, rulerWidth)
	for i := range line {
		line[i] = '-'
	}
	if length <= 0 {
		return string(line)
	}

	for _, pos := range positions {
		frac := pos / length
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		idx := int(frac * float64(rulerWidth-1))
		if line[idx] == '-' {
			line[idx] = '*'
		} else {
			line[idx] = '#'
		}
	}
	return string(line)
}
