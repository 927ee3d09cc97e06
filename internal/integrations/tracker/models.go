package tracker

import "time"

// Position is the last reported GPS fix for a device
type Position struct {
	DeviceID   string    `json:"device_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	SpeedKMH   float64   `json:"speed_kmh"`
	ReportedAt time.Time `json:"reported_at"`
}

// EngineState is the relay's view of the ignition cutoff
type EngineState struct {
	DeviceID string `json:"device_id"`
	EngineOn bool   `json:"engine_on"`
}

type engineCommandRequest struct {
	Command string `json:"command"` // "engine_on" | "engine_off"
}
