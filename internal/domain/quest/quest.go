// Package quest plans a first meeting for a matched pair: a shared free
// time slot and nearby venues ranked by combined travel distance.
package quest

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Default planner configuration constants.
const (
	earthRadiusKM      = 6371
	dayStartMinute     = 7 * 60  // 07:00
	dayEndMinute       = 22 * 60 // 22:00
	defaultMinDuration = 120     // minutes
	defaultVenueCount  = 3
	nearRewardKM       = 5
	nearRewardXP       = 5
	farRewardXP        = 10
)

// Point is a geographic coordinate.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Interval is a busy window within a day, minutes from midnight.
type Interval struct {
	Start int
	End   int
}

// Venue is a candidate meeting place.
type Venue struct {
	Name     string
	Location Point
}

// RankedVenue is a venue with its combined travel distance.
type RankedVenue struct {
	Venue     Venue
	DistanceA float64
	DistanceB float64
	TotalKM   float64
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(a, b Point) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Reward returns the XP granted for completing a quest at the given
// combined distance: closer venues reward less.
func Reward(totalKM float64) int {
	if totalKM <= nearRewardKM {
		return nearRewardXP
	}
	return farRewardXP
}

// CommonFreeSlot finds the earliest window of at least minDuration
// minutes between 07:00 and 22:00 where neither schedule is busy.
// Returns ok=false when no such window exists.
func CommonFreeSlot(busyA, busyB []Interval, minDuration int) (start, end int, ok bool) {
	if minDuration <= 0 {
		minDuration = defaultMinDuration
	}

	busy := make([]bool, dayEndMinute-dayStartMinute)
	for _, iv := range append(append([]Interval{}, busyA...), busyB...) {
		from := max(iv.Start, dayStartMinute)
		to := min(iv.End, dayEndMinute)
		for m := from; m < to; m++ {
			busy[m-dayStartMinute] = true
		}
	}

	run := 0
	for i := range busy {
		if busy[i] {
			run = 0
			continue
		}
		run++
		if run >= minDuration {
			start = i - run + 1 + dayStartMinute
			return start, start + minDuration, true
		}
	}
	return 0, 0, false
}

// FormatMinute renders minutes-from-midnight as HH:MM.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// TopVenues ranks venues by combined distance from both users and
// returns the best n.
func TopVenues(a, b Point, venues []Venue, n int) []RankedVenue {
	if n <= 0 {
		n = defaultVenueCount
	}

	ranked := make([]RankedVenue, len(venues))
	for i, v := range venues {
		dA := Haversine(a, v.Location)
		dB := Haversine(b, v.Location)
		ranked[i] = RankedVenue{
			Venue:     v,
			DistanceA: dA,
			DistanceB: dB,
			TotalKM:   dA + dB,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalKM < ranked[j].TotalKM
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Option applies a configuration option to the Planner.
type Option func(*Planner)

// WithMinDuration sets the minimum quest length in minutes.
func WithMinDuration(minutes int) Option {
	return func(p *Planner) {
		if minutes > 0 {
			p.minDuration = minutes
		}
	}
}

// WithVenueCount sets how many venues a plan suggests.
func WithVenueCount(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.venueCount = n
		}
	}
}

// Planner assembles quest suggestions for matched pairs.
type Planner struct {
	minDuration int
	venueCount  int
}

// NewPlanner creates a planner with default configuration.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		minDuration: defaultMinDuration,
		venueCount:  defaultVenueCount,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan is one quest suggestion for a matched pair.
type Plan struct {
	StartTime string
	EndTime   string
	Venues    []RankedVenue
	RewardXP  int
}

// Plan builds a quest for two users. Missing coordinates or no shared
// free slot yield ok=false rather than an error; a pair without a plan
// is a normal outcome.
func (p *Planner) Plan(_ context.Context, locA, locB Point, busyA, busyB []Interval, venues []Venue) (Plan, bool) {
	if (locA == Point{}) || (locB == Point{}) {
		return Plan{}, false
	}

	start, end, ok := CommonFreeSlot(busyA, busyB, p.minDuration)
	if !ok {
		return Plan{}, false
	}

	top := TopVenues(locA, locB, venues, p.venueCount)
	if len(top) == 0 {
		return Plan{}, false
	}

	return Plan{
		StartTime: FormatMinute(start),
		EndTime:   FormatMinute(end),
		Venues:    top,
		RewardXP:  Reward(top[0].TotalKM),
	}, true
}
