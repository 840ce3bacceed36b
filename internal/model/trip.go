package model

// Trip describes one bus route offered by the service.  Trips are
// loaded once at startup from the static catalog and never change
// while the process is running.
//
// Fields:
//  ID         – human readable route name (e.g. "BINH DINH -> HCM").
//  TotalSeats – fixed seat capacity of the bus on this route.
type Trip struct {
	ID         string // route name, also the catalog key
	TotalSeats int    // fixed capacity, always > 0
}
