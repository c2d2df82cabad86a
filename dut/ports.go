// Package dut describes the port contract of the sorter under test.
//
// The sorter itself is an opaque synchronous circuit. The testbench owns a
// Ports value, commits whole input vectors to it and hands it to the device
// on every evaluation.
package dut

import "strconv"

// Lanes is the number of 32-bit data lanes driven into the sorter.
const Lanes = 4

// Control holds the five control lanes of the sorter.
type Control struct {
	// WE is io_ctrl_we, the write enable.
	WE bool
	// WEEnd is io_ctrl_weEnd, asserted on the last write of a stream.
	WEEnd bool
	// Clear is io_ctrl_clear.
	Clear bool
	// TagRE is io_ctrl_tagRe, the tag read enable.
	TagRE bool
	// DataRE is io_ctrl_dataRe, the data read enable.
	DataRE bool
}

// ResetControl returns the control lane values driven while the device is
// being reset.
func ResetControl() Control {
	return Control{TagRE: true, DataRE: true}
}

// WriteControl returns the control lane values held while a stimulus vector
// is written into the device.
func WriteControl() Control {
	c := ResetControl()
	c.WE = true
	return c
}

// InputVector is one half-cycle worth of input values.
type InputVector struct {
	Ctrl Control
	Data [Lanes]uint32
}

// Ports is the full set of device input ports.
type Ports struct {
	Clock bool
	Reset bool
	Ctrl  Control
	Data  [Lanes]uint32
}

// Apply commits every lane of v to the ports in one step.
func (p *Ports) Apply(v InputVector) {
	p.Ctrl = v.Ctrl
	p.Data = v.Data
}

// Vector returns the input vector currently held on the ports.
func (p Ports) Vector() InputVector {
	return InputVector{Ctrl: p.Ctrl, Data: p.Data}
}

// Signals returns the port values in declaration order, named after the
// generated model's ports.
func (p Ports) Signals() []Signal {
	s := make([]Signal, 0, 7+Lanes)
	s = append(s,
		Bit("clock", p.Clock),
		Bit("reset", p.Reset),
		Bit("io_ctrl_we", p.Ctrl.WE),
		Bit("io_ctrl_weEnd", p.Ctrl.WEEnd),
		Bit("io_ctrl_clear", p.Ctrl.Clear),
		Bit("io_ctrl_tagRe", p.Ctrl.TagRE),
		Bit("io_ctrl_dataRe", p.Ctrl.DataRE),
	)
	for i, d := range p.Data {
		s = append(s, Signal{
			Name:  "io_data_iData_" + strconv.Itoa(i),
			Width: 32,
			Value: uint64(d),
		})
	}
	return s
}

// Signal is a named port or internal net together with its value.
type Signal struct {
	Name  string
	Width int
	Value uint64
}

// Bit returns a 1-bit signal.
func Bit(name string, v bool) Signal {
	s := Signal{Name: name, Width: 1}
	if v {
		s.Value = 1
	}
	return s
}

// Sample is the state of every traced signal at one simulation time.
type Sample struct {
	Time    uint64
	Signals []Signal
}
