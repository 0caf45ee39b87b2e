package ferrysim

// vehicle.go holds the record of a single arriving customer of the terminal

import (
	"fmt"
	"math"
)

// VehicleClass is the base type for the enumerated classes of vehicle
type VehicleClass int

const (
	Car VehicleClass = iota
	Truck
)

var classToStr map[VehicleClass]string = map[VehicleClass]string{Car: "car", Truck: "truck"}

func (vc VehicleClass) String() string {
	str, present := classToStr[vc]
	if !present {
		return fmt.Sprintf("class(%d)", int(vc))
	}
	return str
}

// Vehicle describes one customer of the queue.  Times are minutes since
// the start of the day (midnight).  BoardingTime and DisembarkTime are
// negative until the Dispatcher sets them.
type Vehicle struct {
	ID            int
	Class         VehicleClass
	ArrivalTime   float64
	Reserved      bool
	Penalty       float64 // wait addend applied at boarding for priority loss
	BoardingTime  float64
	DisembarkTime float64
	WaitTime      float64
}

// createVehicle is a constructor
func createVehicle(id int, class VehicleClass, arrival float64, reserved bool) *Vehicle {
	return &Vehicle{ID: id, Class: class, ArrivalTime: arrival, Reserved: reserved,
		BoardingTime: -1.0, DisembarkTime: -1.0}
}

// Boarded reports whether the dispatcher has placed the vehicle on a vessel
func (v *Vehicle) Boarded() bool {
	return !(v.BoardingTime < 0.0)
}

// board records the boarding instant and derives the wait, which is never negative
func (v *Vehicle) board(now float64) {
	v.BoardingTime = now
	v.WaitTime = math.Max(0.0, now-v.ArrivalTime) + v.Penalty
}

// ready is true when the vehicle has reached the terminal by time now
func (v *Vehicle) ready(now float64) bool {
	return v.ArrivalTime <= now
}
