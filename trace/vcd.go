// Package trace records device evaluations as a Value Change Dump (VCD)
// waveform.
//
// A Writer is an akita hook. Attach it to a clock.Sequencer and it dumps one
// time step per evaluation.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/timing/clock"
)

// DefaultTimescale is the VCD time unit of one simulation time step.
const DefaultTimescale = "1ps"

// DefaultScope is the module scope the signals are declared in.
const DefaultScope = "TOP"

type variable struct {
	id    string
	name  string
	width int
}

// Writer writes samples as VCD.
type Writer struct {
	out    *bufio.Writer
	closer io.Closer

	timescale string
	scope     string
	version   string
	date      time.Time

	vars     []variable
	last     []uint64
	lastTime uint64
	// stampTime is the time of the last #<time> line written.
	stampTime uint64
	samples   uint64

	err    error
	closed bool
}

// Option is a functional option for configuring a Writer.
type Option func(*Writer)

// WithTimescale sets the $timescale declaration, for example "1ns".
func WithTimescale(ts string) Option {
	return func(w *Writer) {
		w.timescale = ts
	}
}

// WithScope sets the name of the module scope.
func WithScope(scope string) Option {
	return func(w *Writer) {
		w.scope = scope
	}
}

// WithVersion sets the $version text.
func WithVersion(v string) Option {
	return func(w *Writer) {
		w.version = v
	}
}

// WithDate adds a $date declaration.
func WithDate(t time.Time) Option {
	return func(w *Writer) {
		w.date = t
	}
}

// NewWriter creates a Writer on top of out. Closing the Writer closes out
// if it is an io.Closer.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:       bufio.NewWriter(out),
		timescale: DefaultTimescale,
		scope:     DefaultScope,
		version:   "sortbench",
	}
	if c, ok := out.(io.Closer); ok {
		w.closer = c
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Create creates or truncates the file at path and returns a Writer on it.
func Create(path string, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create trace file %s", path)
	}
	return NewWriter(f, opts...), nil
}

// Func implements sim.Hook. It writes the dut.Sample carried by evaluation
// hooks and ignores every other hook position. Write errors are kept and
// reported by Err and Close.
func (w *Writer) Func(ctx sim.HookCtx) {
	if ctx.Pos != clock.HookPosEval {
		return
	}
	s, ok := ctx.Item.(dut.Sample)
	if !ok {
		w.fail(errors.Errorf("unexpected hook item %T", ctx.Item))
		return
	}
	_ = w.Write(s)
}

// Samples returns the number of samples written.
func (w *Writer) Samples() uint64 {
	return w.samples
}

// Err returns the first error met while writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Write dumps one sample. The first sample fixes the set of signals; later
// samples must carry the same signals in the same order and must not go
// back in time. Only changed values are dumped after the first sample.
func (w *Writer) Write(s dut.Sample) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		w.fail(errors.New("write to closed trace"))
		return w.err
	}

	if w.vars == nil {
		w.declare(s.Signals)
		w.dumpAll(s)
		return w.err
	}

	if len(s.Signals) != len(w.vars) {
		w.fail(errors.Errorf("sample at %d has %d signals, want %d",
			s.Time, len(s.Signals), len(w.vars)))
		return w.err
	}
	if s.Time < w.lastTime {
		w.fail(errors.Errorf("sample time %d is before %d", s.Time, w.lastTime))
		return w.err
	}

	for i, sig := range s.Signals {
		if sig.Name != w.vars[i].name {
			w.fail(errors.Errorf("signal %d is %s, want %s", i, sig.Name, w.vars[i].name))
			return w.err
		}
		if sig.Value == w.last[i] {
			continue
		}
		if s.Time != w.stampTime {
			w.printf("#%d\n", s.Time)
			w.stampTime = s.Time
		}
		w.value(i, sig.Value)
	}

	w.lastTime = s.Time
	w.samples++
	return w.err
}

func (w *Writer) declare(signals []dut.Signal) {
	if !w.date.IsZero() {
		w.printf("$date\n\t%s\n$end\n", w.date.Format(time.ANSIC))
	}
	w.printf("$version\n\t%s\n$end\n", w.version)
	w.printf("$timescale %s $end\n", w.timescale)
	w.printf("$scope module %s $end\n", w.scope)

	w.vars = make([]variable, len(signals))
	w.last = make([]uint64, len(signals))
	for i, sig := range signals {
		v := variable{id: identifier(i), name: sig.Name, width: sig.Width}
		w.vars[i] = v
		if v.width > 1 {
			w.printf("$var wire %d %s %s [%d:0] $end\n", v.width, v.id, v.name, v.width-1)
		} else {
			w.printf("$var wire 1 %s %s $end\n", v.id, v.name)
		}
	}

	w.printf("$upscope $end\n")
	w.printf("$enddefinitions $end\n")
}

func (w *Writer) dumpAll(s dut.Sample) {
	w.printf("#%d\n$dumpvars\n", s.Time)
	for i, sig := range s.Signals {
		w.value(i, sig.Value)
	}
	w.printf("$end\n")
	w.lastTime = s.Time
	w.stampTime = s.Time
	w.samples++
}

func (w *Writer) value(i int, val uint64) {
	v := w.vars[i]
	w.last[i] = val
	if v.width > 1 {
		w.printf("b%s %s\n", strconv.FormatUint(val, 2), v.id)
		return
	}
	w.printf("%d%s\n", val&1, v.id)
}

func (w *Writer) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(w.out, format, args...); err != nil {
		w.fail(errors.Wrap(err, "failed to write trace"))
	}
}

// Close flushes buffered output and closes the underlying file. It reports
// the first error met while writing. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true

	if err := w.out.Flush(); err != nil {
		w.fail(errors.Wrap(err, "failed to flush trace"))
	}
	if w.closer != nil {
		if err := w.closer.Close(); err != nil {
			w.fail(errors.Wrap(err, "failed to close trace"))
		}
	}
	return w.err
}

// identifier returns the short VCD identifier of the i-th variable, using
// the printable ASCII range '!' to '~'.
func identifier(i int) string {
	const first, base = '!', '~' - '!' + 1
	var b []byte
	for {
		b = append(b, byte(first+i%base))
		i /= base
		if i == 0 {
			break
		}
		i--
	}
	return string(b)
}
