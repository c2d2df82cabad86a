package dut

// Device is a synchronous circuit driven through its input ports.
//
// Eval settles the circuit for the given port values. Final releases the
// model once the simulation is over; no Eval may follow it.
type Device interface {
	Eval(in Ports)
	Final()
}

// Observable is implemented by devices that expose output signals to the
// waveform trace.
type Observable interface {
	Outputs() []Signal
}
