package telemetry

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAtomicAddConcurrentWriters(t *testing.T) {
	Convey("When atomicAdd is called", t, func() {
		Convey("When multiple writers add to the float value concurrently", func() {
			f64 := float64(0.0)
			numOps := 3000
			numWriters := 2

			wg := sync.WaitGroup{}
			wg.Add(numWriters)
			adder := func() {
				for i := 0; i < numOps; i++ {
					atomicAdd(&f64, 1.0)
				}
				wg.Done()
			}

			for i := 0; i < numWriters; i++ {
				go adder()
			}

			wg.Wait()
			So(f64, ShouldEqual, float64(numOps*numWriters))
		})
	})
}

func TestVelocityGaugeAverage(t *testing.T) {
	Convey("Given a fresh gauge", t, func() {
		g := NewVelocityGauge()

		Convey("Average is zero before any record", func() {
			So(g.Average(), ShouldEqual, 0)
		})

		Convey("Average reflects recorded velocities under concurrent writers", func() {
			wg := sync.WaitGroup{}
			wg.Add(3)
			for _, v := range []float64{10, 20, 30} {
				v := v
				go func() {
					g.Record(v)
					wg.Done()
				}()
			}
			wg.Wait()

			So(g.Average(), ShouldEqual, 20)
		})

		Convey("Reset zeroes both sum and count", func() {
			g.Record(5)
			g.Reset()
			So(g.Average(), ShouldEqual, 0)
		})
	})
}
