package ferrysim

// scriptedStream returns its values in order and then repeats the last one
type scriptedStream struct {
	vals  []float64
	idx   int
	draws int
}

func (ss *scriptedStream) RandU01() float64 {
	ss.draws += 1
	if len(ss.vals) == 0 {
		return 0.5
	}
	v := ss.vals[min(ss.idx, len(ss.vals)-1)]
	ss.idx += 1
	return v
}

func constStream(v float64) *scriptedStream {
	return &scriptedStream{vals: []float64{v}}
}

// readyVehicles makes n unreserved cars arriving one minute apart starting at t0
func readyVehicles(n int, t0 float64) []*Vehicle {
	vehicles := make([]*Vehicle, 0, n)
	for idx := 0; idx < n; idx++ {
		vehicles = append(vehicles, createVehicle(idx+1, Car, t0+float64(idx), false))
	}
	return vehicles
}
