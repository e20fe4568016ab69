package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	algocaf "github.com/cwbudde/algo-caf"
	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/device/host"
	"github.com/cwbudde/algo-caf/device/opencl"
)

const (
	modeForward   = "forward"
	modeInverse   = "inverse"
	modeRoundtrip = "roundtrip"
)

type benchResult struct {
	size    int
	mode    string
	nsPerOp float64
}

func main() {
	var (
		sizeList    = flag.String("sizes", "1024,4096,16384,65536", "comma-separated sizes")
		iters       = flag.Int("iters", 50, "benchmark iterations")
		warmup      = flag.Int("warmup", 5, "warmup iterations")
		mode        = flag.String("mode", modeForward, "benchmark mode: forward, inverse, roundtrip, all")
		backendName = flag.String("backend", "host", "device backend: host, opencl")
		deviceIndex = flag.Int("device", 0, "device index within the backend")
		seed        = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	sizes := parseSizes(*sizeList)
	if len(sizes) == 0 {
		fmt.Println("no sizes specified")
		return
	}

	var b device.Backend
	switch *backendName {
	case "host":
		b = host.New(host.Options{})
	case "opencl":
		b = opencl.New()
	default:
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", *backendName)
		os.Exit(2)
	}

	lib, err := device.Acquire(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup %s: %v\n", *backendName, err)
		os.Exit(1)
	}
	defer lib.Close()

	ctx, err := b.NewContext(*deviceIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "context: %v\n", err)
		return
	}
	defer ctx.Close()

	queue, err := ctx.NewQueue()
	if err != nil {
		fmt.Fprintf(os.Stderr, "queue: %v\n", err)
		return
	}
	defer queue.Close()

	rnd := rand.New(rand.NewSource(*seed))

	fmt.Printf("device=%s iters=%d warmup=%d\n", ctx.Device().Name, *iters, *warmup)
	fmt.Printf("%8s  %10s  %12s  %10s\n", "size", "mode", "ns/cycle", "MS/s")

	var results []benchResult
	for _, n := range sizes {
		for _, runMode := range resolveModes(*mode) {
			res, err := benchmarkSize(ctx, queue, rnd, n, *iters, *warmup, runMode)
			if err != nil {
				fmt.Fprintf(os.Stderr, "size %d %s: %v\n", n, runMode, err)
				continue
			}
			results = append(results, res)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].size != results[j].size {
			return results[i].size < results[j].size
		}
		return results[i].mode < results[j].mode
	})

	for _, res := range results {
		msps := float64(res.size) / res.nsPerOp * 1e3
		fmt.Printf("%8d  %10s  %12.1f  %10.2f\n", res.size, res.mode, res.nsPerOp, msps)
	}
}

// benchmarkSize times full write/transform/read cycles, which is what a
// processing loop pays per frame.
func benchmarkSize(ctx device.Context, queue device.Queue, rnd *rand.Rand, n, iters, warmup int, mode string) (benchResult, error) {
	pc, err := algocaf.NewPlanContext(ctx, queue, n)
	if err != nil {
		return benchResult{}, err
	}
	defer pc.Close()

	signal := make([]float32, n*algocaf.SignalScalarsPerSample)
	for i := range signal {
		signal[i] = rnd.Float32()*2 - 1
	}

	dirs := modeDirections(mode)
	slot := algocaf.Slot0

	for range warmup {
		if err := pc.Cycle(slot, signal, dirs...); err != nil {
			return benchResult{}, err
		}
		slot = 1 - slot
	}

	runtime.GC()

	start := time.Now()

	for range iters {
		if err := pc.Cycle(slot, signal, dirs...); err != nil {
			return benchResult{}, err
		}
		slot = 1 - slot
	}

	elapsed := time.Since(start)

	return benchResult{
		size:    n,
		mode:    mode,
		nsPerOp: float64(elapsed.Nanoseconds()) / float64(iters),
	}, nil
}

func modeDirections(mode string) []algocaf.Direction {
	switch mode {
	case modeInverse:
		return []algocaf.Direction{algocaf.Inverse}
	case modeRoundtrip:
		return []algocaf.Direction{algocaf.Forward, algocaf.Inverse}
	default:
		return []algocaf.Direction{algocaf.Forward}
	}
}

func resolveModes(mode string) []string {
	switch mode {
	case "all":
		return []string{modeForward, modeInverse, modeRoundtrip}
	case modeInverse, modeRoundtrip, modeForward:
		return []string{mode}
	default:
		return []string{modeForward}
	}
}

func parseSizes(list string) []int {
	parts := strings.Split(list, ",")

	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var n int

		_, err := fmt.Sscanf(part, "%d", &n)
		if err != nil || n <= 0 {
			continue
		}

		out = append(out, n)
	}

	return out
}
