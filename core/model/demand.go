package model

import "time"

// Demand is a single scheduled flight leg requiring exactly one aircraft.
type Demand struct {
	ID         string
	DepAirport string
	ArrAirport string
	Departure  time.Time
	Arrival    time.Time
}

// BlockTime returns the scheduled duration of the leg.
func (d Demand) BlockTime() time.Duration {
	return d.Arrival.Sub(d.Departure)
}
