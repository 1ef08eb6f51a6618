package domain

// DriverStatus is the availability shown on the live map.
type DriverStatus string

const (
	DriverActive    DriverStatus = "active"
	DriverAvailable DriverStatus = "available"
	DriverIdle      DriverStatus = "idle"
)

// Driver is a courier position on the live tracking feed.
type Driver struct {
	Name    string       `json:"name"`
	Lat     float64      `json:"lat"`
	Lng     float64      `json:"lng"`
	Status  DriverStatus `json:"status"`
	Zone    string       `json:"zone"`
	Geohash string       `json:"geohash"`
}

// Zone summarises network coverage for one township.
type Zone struct {
	Name      string `json:"name"`
	Drivers   int    `json:"drivers"`
	Customers int    `json:"customers"`
}

// PositionUpdate moves one driver by a small offset and sets its status.
type PositionUpdate struct {
	Driver string
	DLat   float64
	DLng   float64
	Status DriverStatus
}
