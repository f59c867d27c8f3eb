package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Drives a development-mode Kanoe instance. The admin account holds the
// development stable supply and pays for subscriptions on behalf of the run.

const (
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 200
)

var (
	baseURL     = flag.String("url", "http://127.0.0.1:8080", "Kanoe base URL")
	admin       = flag.String("admin", "0x00000000000000000000000000000000000000ad", "admin address holding the stable supply")
	stableToken = flag.String("stable", "0x00000000000000000000000000000000000000a0", "development stable token")
	controller  = flag.String("controller", "0x00000000000000000000000000000000000000c0", "subscription controller address")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Println("=== Kanoe Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Users: %d\n\n", numWorkers, testDuration, numUsers)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	r := post("POST /assets/approve", "/assets/approve", map[string]any{
		"token":   *stableToken,
		"spender": *controller,
		"amount":  "1000000000000000",
	}, http.StatusNoContent)
	if r.err {
		fmt.Printf("FAILED: approve returned %d (is development mode enabled?)\n", r.status)
		return
	}

	fmt.Println("\n--- Phase 1: Read-only load ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch x := rng.Float64(); {
		case x < 0.40:
			return get("GET /plans", "/plans", http.StatusOK)
		case x < 0.70:
			return get("GET /plan", fmt.Sprintf("/plan?id=%d", rng.Intn(3)+1), http.StatusOK)
		case x < 0.90:
			return get("GET /subscription", "/subscription?user="+userAddress(rng), http.StatusOK)
		default:
			return get("GET /escrow/max-id", "/escrow/max-id", http.StatusOK)
		}
	})

	fmt.Println("\n--- Phase 2: Mixed load (10% pay, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		switch x := rng.Float64(); {
		case x < 0.10:
			return post("POST /pay", "/pay", map[string]any{"plan_id": rng.Intn(3) + 1, "wallets_count": 1}, http.StatusOK)
		case x < 0.50:
			return get("GET /plans", "/plans", http.StatusOK)
		case x < 0.80:
			return get("GET /subscription", "/subscription?user="+*admin, http.StatusOK)
		default:
			return get("GET /subscriptions/updates", "/subscriptions/updates?from=1", http.StatusOK)
		}
	})
}

func userAddress(rng *rand.Rand) string {
	return fmt.Sprintf("0x%040x", rng.Intn(numUsers)+1)
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func get(endpoint, path string, want int) result {
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func post(endpoint, path string, body any, want int) result {
	data, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, *baseURL+path, bytes.NewReader(data))
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Caller-Address", *admin)

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
