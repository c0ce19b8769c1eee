// Command ecsbench profiles World spawn and query throughput under
// github.com/pkg/profile.
//
// Usage:
//
//	go run ./cmd/ecsbench
//	go tool pprof -http=":8000" -nodefraction=0.001 ./ecsbench cpu.pprof
package main

import (
	"flag"
	"log"

	"github.com/edwinsyarief/archway"
	"github.com/pkg/profile"
)

type position struct {
	X, Y float64
}

type velocity struct {
	DX, DY float64
}

func main() {
	entities := flag.Int("entities", 100_000, "entities to spawn before profiling")
	iters := flag.Int("iters", 1000, "query iterations to run")
	mode := flag.String("mode", "cpu", "profile mode: cpu or mem")
	flag.Parse()

	var stop *profile.Profile
	switch *mode {
	case "mem":
		stop = profile.Start(profile.MemProfile, profile.ProfilePath("."))
	default:
		stop = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	}
	defer stop.Stop()

	if err := run(*entities, *iters); err != nil {
		log.Fatal(err)
	}
}

func run(entityCount, iters int) error {
	w := archway.NewWorld()

	for i := 0; i < entityCount; i++ {
		w.Spawn(archway.NewBundle2(
			position{X: float64(i)},
			velocity{DX: 1, DY: 1},
		))
	}

	query := archway.CreateQueryMut2[position, velocity](w)
	for i := 0; i < iters; i++ {
		query.Reset()
		for query.Next() {
			pos, vel := query.Get()
			pos.X += vel.DX
			pos.Y += vel.DY
		}
	}
	return nil
}
