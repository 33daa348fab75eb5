package world

import "github.com/Garsondee/Red-Command/internal/geom"

// MapSize is the playable area in world pixels.
var MapSize = geom.Pt(2048, 2048)

var startCorners = []geom.Point{
	{X: 160, Y: 160},
	{X: 1888, Y: 1888},
	{X: 1888, Y: 160},
	{X: 160, Y: 1888},
}

// Skirmish builds the starting position for seats players: a construction
// yard and three tanks each, placed identically on every peer.
func Skirmish(seats int) *World {
	w := New()
	for i := 0; i < seats; i++ {
		w.AddPlayer()
	}
	for i := 0; i < seats; i++ {
		base := startCorners[i%len(startCorners)]
		w.AddActor(Actor{Owner: i, Kind: "fact", Building: true, Location: base, MaxHealth: 400})
		for j := 0; j < 3; j++ {
			w.AddActor(Actor{Owner: i, Kind: "1tnk", Location: base.Add(geom.Pt(60+30*j, 60))})
		}
	}
	return w
}

// StartOf returns the starting location of seat i.
func StartOf(i int) geom.Point {
	return startCorners[i%len(startCorners)]
}
