package main

import (
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"yoladmin/client"
	"yoladmin/internal/devapi"
	"yoladmin/pkg/logger"
)

// Configuration
var (
	targetURL = flag.String("url", "", "Backend base URL; empty runs an in-process backend")
	username  = flag.String("user", "admin", "Staff username")
	password  = flag.String("pass", "admin123", "Staff password")
	totalVUs  = flag.Int("c", 200, "Total Virtual Users (Concurrency)")
	rampUp    = flag.Duration("ramp", 5*time.Second, "Ramp up duration")
	duration  = flag.Duration("d", 30*time.Second, "Test duration")
	expiry    = flag.Duration("expire", 2*time.Second, "Invalidate access tokens this often (in-process backend only)")
	delay     = flag.Duration("refresh-delay", 50*time.Millisecond, "Artificial refresh latency (in-process backend only)")
)

// Metrics
var (
	activeVUs     int64
	callsOK       int64
	callErrors    int64
	latencySum    int64 // microseconds
	latencyCount  int64
	invalidations int64
)

// refreshTally counts refresh outcomes reported by the shared client.
type refreshTally struct {
	client.NoopObserver
	mu     sync.Mutex
	counts map[string]int64
}

func (r *refreshTally) RecordRefresh(outcome string) {
	r.mu.Lock()
	r.counts[outcome]++
	r.mu.Unlock()
}

func (r *refreshTally) snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

func main() {
	flag.Parse()
	logger.InitLogger("loadtest")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	base := *targetURL
	var backend *devapi.Server
	if base == "" {
		opts := devapi.DefaultOptions()
		opts.Username, opts.Password = *username, *password
		opts.RefreshDelay = *delay
		backend = devapi.New(opts)
		srv := httptest.NewServer(backend.Handler())
		defer srv.Close()
		base = srv.URL + "/api"
	}

	fmt.Printf("Starting refresh drill\n")
	fmt.Printf("   Target: %s\n", base)
	fmt.Printf("   VUs: %d\n", *totalVUs)
	fmt.Printf("   Ramp: %v\n", *rampUp)

	tally := &refreshTally{counts: map[string]int64{}}
	cli, err := client.New(ctx, client.Options{BaseURL: base, Observer: tally})
	if err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}
	if _, err := cli.Login(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup

	// Metric Reporter
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ok := atomic.SwapInt64(&callsOK, 0)
				errs := atomic.LoadInt64(&callErrors)
				latSum := atomic.SwapInt64(&latencySum, 0)
				latCnt := atomic.SwapInt64(&latencyCount, 0)

				avgLat := float64(0)
				if latCnt > 0 {
					avgLat = float64(latSum) / float64(latCnt) / 1000
				}
				fmt.Printf("[%s] Active: %d | Calls/s: %d | Errors: %d | Avg Latency: %.2f ms | Refresh: %v\n",
					time.Now().Format("15:04:05"), atomic.LoadInt64(&activeVUs), ok, errs, avgLat, tally.snapshot())
			}
		}
	}()

	// Token killer
	if backend != nil && *expiry > 0 {
		go func() {
			ticker := time.NewTicker(*expiry)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					backend.Tokens().InvalidateAccessTokens()
					atomic.AddInt64(&invalidations, 1)
				}
			}
		}()
	}

	// Ramp-up Logic
	interval := *rampUp / time.Duration(max(1, *totalVUs))
	for i := 0; i < *totalVUs && ctx.Err() == nil; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runVU(ctx, cli, id)
		}(i)
		time.Sleep(interval)
	}

	fmt.Println("All VUs launched. Waiting...")
	wg.Wait()

	fmt.Printf("\nInvalidations: %d | Refresh outcomes: %v\n", atomic.LoadInt64(&invalidations), tally.snapshot())
	if backend != nil {
		fmt.Printf("Backend refresh calls: %d | Backend requests: %d\n", backend.RefreshCalls(), backend.Requests())
	}
	if !cli.IsAuthenticated() {
		fmt.Println("Session was lost during the drill")
		os.Exit(1)
	}
}

// runVU cycles through the list pages an operator would browse.
func runVU(ctx context.Context, cli *client.Client, id int) {
	atomic.AddInt64(&activeVUs, 1)
	defer atomic.AddInt64(&activeVUs, -1)

	calls := []func(context.Context) error{
		func(ctx context.Context) error { _, err := cli.ListOrders(ctx, 1, client.OrderFilter{}); return err },
		func(ctx context.Context) error { _, err := cli.ListDrivers(ctx, 1, client.DriverFilter{}); return err },
		func(ctx context.Context) error { _, err := cli.ListUsers(ctx, 1, client.UserFilter{}); return err },
		func(ctx context.Context) error { _, err := cli.GetStatistics(ctx); return err },
	}
	for i := id; ctx.Err() == nil; i++ {
		start := time.Now()
		err := calls[i%len(calls)](ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if atomic.AddInt64(&callErrors, 1) == 1 {
				fmt.Printf("VU %d error: %v\n", id, err)
			}
			continue
		}
		atomic.AddInt64(&callsOK, 1)
		atomic.AddInt64(&latencySum, time.Since(start).Microseconds())
		atomic.AddInt64(&latencyCount, 1)
	}
}
