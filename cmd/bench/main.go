// Command bench runs a synthetic dispatch workload and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IvanBrykalov/dispatchcache/dispatch"
	pmet "github.com/IvanBrykalov/dispatchcache/metrics/prom"
	"github.com/IvanBrykalov/dispatchcache/tree"
)

// benchExec scales each device shard by a fixed factor.
type benchExec struct{ factor float32 }

func (e benchExec) Execute(_ context.Context, args [][]dispatch.Buffer) ([][]dispatch.Buffer, error) {
	out := make([]dispatch.Buffer, len(args[0]))
	for d, b := range args[0] {
		in := b.([]float32)
		scaled := make([]float32, len(in))
		for i, x := range in {
			scaled[i] = x * e.factor
		}
		out[d] = scaled
	}
	return [][]dispatch.Buffer{out}, nil
}

// vecArg is a fixed-shape dynamic argument.
type vecArg struct{ data []float32 }

func (v vecArg) DispatchSpec(bool) (dispatch.ArgSpec, error) {
	return dispatch.ArgSpec{DType: dispatch.Float32, Shape: []int{len(v.data)}}, nil
}

func main() {
	// ---- Flags ----
	var (
		shards   = flag.Int("shards", 0, "number of cache shards (0=auto)")
		devices  = flag.Int("devices", 2, "simulated device count")
		veclen   = flag.Int("veclen", 1024, "dynamic argument length (multiple of devices)")
		sigs     = flag.Int("sigs", 64, "distinct signatures (static values)")
		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		compile  = flag.Duration("compile", 5*time.Millisecond, "simulated compile latency per cold signature")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "dispatch", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Slow path: simulated compile, then real materials ----
	var compiles atomic.Int64
	nDev := *devices
	slowPath := func(_ context.Context, args []any) (any, *dispatch.FastPathMaterials, error) {
		compiles.Add(1)
		time.Sleep(*compile)
		factor := float32(args[0].(int))
		v := args[1].(vecArg)
		out := make([]float32, len(v.data))
		for i, x := range v.data {
			out[i] = x * factor
		}
		mats := &dispatch.FastPathMaterials{
			Version:    dispatch.FastPathVersion,
			Executable: benchExec{factor: factor},
			EncodeArgs: func(dyn []any) ([][]dispatch.Buffer, error) {
				data := dyn[0].(vecArg).data
				chunk := len(data) / nDev
				bufs := make([]dispatch.Buffer, nDev)
				for d := 0; d < nDev; d++ {
					bufs[d] = data[d*chunk : (d+1)*chunk]
				}
				return [][]dispatch.Buffer{bufs}, nil
			},
			DecodeResults: func(out [][]dispatch.Buffer) ([]any, error) {
				var data []float32
				for _, b := range out[0] {
					data = append(data, b.([]float32)...)
				}
				return []any{vecArg{data}}, nil
			},
			OutTree: tree.Leaf(),
		}
		return vecArg{out}, mats, nil
	}

	fn, err := dispatch.New(dispatch.Options{
		SlowPath:      slowPath,
		StaticArgNums: []int{0},
		Shards:        *shards,
		Metrics:       metrics,
	})
	if err != nil {
		log.Fatal(err)
	}

	// ---- Workload ----
	input := vecArg{make([]float32, *veclen)}
	for i := range input.data {
		input.data[i] = float32(i)
	}

	log.Printf("bench: %d workers, %d signatures, %d devices, %s", *workers, *sigs, nDev, *duration)
	ctx := context.Background()
	deadline := time.Now().Add(*duration)
	var calls, errs atomic.Int64

	var wg sync.WaitGroup
	wg.Add(*workers)
	startedAt := time.Now()
	for w := 0; w < *workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(*seed + int64(id)*9973))
			for time.Now().Before(deadline) {
				factor := r.Intn(*sigs)
				if _, err := fn.Call(ctx, factor, input); err != nil {
					errs.Add(1)
				}
				calls.Add(1)
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(startedAt)

	st := fn.Stats()
	fmt.Printf("calls:      %d (%.0f/s)\n", calls.Load(), float64(calls.Load())/elapsed.Seconds())
	fmt.Printf("errors:     %d\n", errs.Load())
	fmt.Printf("compiles:   %d (slow-path invocations)\n", compiles.Load())
	fmt.Printf("signatures: %d resident\n", fn.CacheSize())
	fmt.Printf("hits:       %d, misses: %d\n", st.Hits, st.Misses)
}
