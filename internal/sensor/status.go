package sensor

// Status is the bookkeeping a Sensor exposes to downstream consumers
// (spec.md §3 "SensorStatus"). It is mutated only by Sensor.Sample
// (spec.md §3 "Lifecycle").
type Status struct {
	Available           bool
	Healthy             bool
	MissedUpdates       int
	LastError           string
	TimeSinceLastValid  float64
	Confidence          float64
	HasMeasurement      bool
	LastMeasurement     Measurement
	LastMeasurementTime float64
}
