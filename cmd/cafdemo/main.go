// Command cafdemo runs one write/transform/read cycle on a chosen device and
// prints the interleaved result.
//
// With the defaults it transforms a 16-sample square wave (1 on the real
// parts, 0 on the imaginary parts), so every bin except bin 0 is zero.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	algocaf "github.com/cwbudde/algo-caf"
	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/device/host"
	"github.com/cwbudde/algo-caf/device/opencl"
)

func main() {
	var (
		n           = flag.Int("n", 16, "transform length in samples")
		backendName = flag.String("backend", "host", "device backend: host, opencl")
		deviceIndex = flag.Int("device", 0, "device index within the backend")
		direction   = flag.String("direction", "forward", "forward, inverse or roundtrip")
		slotIndex   = flag.Int("slot", 0, "buffer slot (0 or 1)")
		verbose     = flag.Bool("v", false, "log lifecycle events")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *backendName, *deviceIndex, *n, algocaf.Slot(*slotIndex), *direction); err != nil {
		logger.Error("cafdemo failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, backendName string, deviceIndex, n int, slot algocaf.Slot, direction string) error {
	dirs, err := parseDirections(direction)
	if err != nil {
		return err
	}

	switch backendName {
	case "host":
		host.Register()
	case "opencl":
		opencl.Register()
	default:
		return fmt.Errorf("unknown backend %q", backendName)
	}

	lib, err := device.Setup()
	if err != nil {
		return err
	}
	defer lib.Close()

	info := lib.Backend().Info()
	logger.Debug("library ready", "backend", info.Name, "version", info.Version)

	ctx, err := lib.Backend().NewContext(deviceIndex)
	if err != nil {
		return err
	}
	defer ctx.Close()

	queue, err := ctx.NewQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	dev := ctx.Device()
	fmt.Printf("device: %s (%s, driver %s, %s)\n", dev.Name, dev.Vendor, dev.Driver, dev.ComputeCap)

	pc, err := algocaf.NewPlanContext(ctx, queue, n, algocaf.WithLogger(logger))
	if err != nil {
		return err
	}
	defer pc.Close()

	signal := make([]float32, n*algocaf.SignalScalarsPerSample)
	for i := range signal {
		signal[i] = float32((i + 1) % 2)
	}

	if err := pc.Cycle(slot, signal, dirs...); err != nil {
		return err
	}

	out := pc.Staging()
	for i := range n {
		fmt.Printf("%4d  % .6f  % .6f\n", i, out[2*i], out[2*i+1])
	}
	return nil
}

func parseDirections(s string) ([]algocaf.Direction, error) {
	switch s {
	case "forward":
		return []algocaf.Direction{algocaf.Forward}, nil
	case "inverse":
		return []algocaf.Direction{algocaf.Inverse}, nil
	case "roundtrip":
		return []algocaf.Direction{algocaf.Forward, algocaf.Inverse}, nil
	default:
		return nil, fmt.Errorf("unknown direction %q", s)
	}
}
