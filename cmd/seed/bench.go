package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

type benchConfig struct {
	BaseURL        string
	RPS            float64
	Duration       time.Duration
	RequestTimeout time.Duration
	HealthTimeout  time.Duration
	ReportPath     string
	Seed           int64
}

type latencySummary struct {
	Samples   int     `json:"samples"`
	AverageMs float64 `json:"average_ms"`
	P95Ms     float64 `json:"p95_ms"`
	MaxMs     float64 `json:"max_ms"`
}

type totalsSummary struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

type benchSummary struct {
	GeneratedAt time.Time      `json:"generated_at"`
	BaseURL     string         `json:"base_url"`
	Employees   int            `json:"employees"`
	DurationSec float64        `json:"duration_sec"`
	TargetRPS   float64        `json:"target_rps"`
	ActualRPS   float64        `json:"actual_rps"`
	Totals      totalsSummary  `json:"totals"`
	Move        latencySummary `json:"move_latency_ms"`
	Errors      []string       `json:"errors,omitempty"`
}

// move: пара «сотрудник, новый руководитель». Руководитель с меньшим id не образует цикл,
// пока это верно для всего набора.
type move struct {
	EmployeeID   int64 `json:"employeeId"`
	NewManagerID int64 `json:"newManagerId"`
}

type moveRecorder struct {
	mu        sync.Mutex
	total     int
	success   int
	rejected  int
	failures  int
	durations []time.Duration
	errors    []string
}

func (m *moveRecorder) record(duration time.Duration, status int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total++
	switch {
	case err != nil:
		m.failures++
		if len(m.errors) < 10 {
			m.errors = append(m.errors, err.Error())
		}
	case status == http.StatusConflict:
		m.rejected++
	default:
		m.success++
		m.durations = append(m.durations, duration)
	}
}

func (m *moveRecorder) toSummary(elapsed time.Duration, cfg benchConfig, employees int) benchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := benchSummary{
		GeneratedAt: time.Now(),
		BaseURL:     cfg.BaseURL,
		Employees:   employees,
		DurationSec: elapsed.Seconds(),
		TargetRPS:   cfg.RPS,
		Totals: totalsSummary{
			Requested: m.total,
			Succeeded: m.success,
			Rejected:  m.rejected,
			Failed:    m.failures,
		},
		Move:   calcLatency(m.durations),
		Errors: append([]string(nil), m.errors...),
	}
	if elapsed > 0 {
		summary.ActualRPS = float64(m.success) / elapsed.Seconds()
	}
	return summary
}

func calcLatency(data []time.Duration) latencySummary {
	if len(data) == 0 {
		return latencySummary{}
	}
	samples := append([]time.Duration(nil), data...)
	sort.Slice(samples, func(i, j int) bool {
		return samples[i] < samples[j]
	})

	var total time.Duration
	for _, d := range samples {
		total += d
	}
	avg := float64(total.Microseconds()) / float64(len(samples))
	p95 := samples[int(math.Ceil(0.95*float64(len(samples))))-1]
	return latencySummary{
		Samples:   len(samples),
		AverageMs: avg / 1000.0,
		P95Ms:     float64(p95.Microseconds()) / 1000.0,
		MaxMs:     float64(samples[len(samples)-1].Microseconds()) / 1000.0,
	}
}

// newBenchCmd гоняет переназначения против запущенного сервиса и печатает задержки.
func newBenchCmd() *cobra.Command {
	var cfg benchConfig
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Send reassignment requests at a fixed rate and report latency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.RPS <= 0 {
				return fmt.Errorf("--rps must be positive")
			}
			cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
			return runBench(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "base URL of the running service")
	cmd.Flags().Float64Var(&cfg.RPS, "rps", 5, "target requests per second")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 30*time.Second, "load duration (e.g. 45s, 1m)")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", 2*time.Second, "HTTP request timeout")
	cmd.Flags().DurationVar(&cfg.HealthTimeout, "health-timeout", 30*time.Second, "maximum wait for /health readiness")
	cmd.Flags().StringVar(&cfg.ReportPath, "report", "", "path to store structured results")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed for picking moves")
	return cmd
}

func runBench(ctx context.Context, cfg benchConfig, out io.Writer) error {
	client := &http.Client{Timeout: cfg.RequestTimeout}

	if err := waitForHealthy(ctx, client, cfg.BaseURL, cfg.HealthTimeout); err != nil {
		return fmt.Errorf("service unhealthy: %w", err)
	}

	employees, err := fetchEmployees(ctx, client, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("fetch employees: %w", err)
	}
	moves := buildMoves(employees)
	if len(moves) == 0 {
		return fmt.Errorf("no acyclic moves available for %d employees", len(employees))
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	recorder := &moveRecorder{}
	start := time.Now()
	executeLoad(ctx, client, cfg, moves, rnd, recorder)
	summary := recorder.toSummary(time.Since(start), cfg, len(employees))

	printSummary(out, summary)
	if err := writeReport(summary, cfg.ReportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func waitForHealthy(ctx context.Context, client *http.Client, baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for health")
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		if resp != nil {
			resp.Body.Close()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func fetchEmployees(ctx context.Context, client *http.Client, baseURL string) ([]models.Employee, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/chart/employees", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var body models.EmployeesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Employees, nil
}

// buildMoves перечисляет переносы под руководителя с меньшим id, исключая текущего.
func buildMoves(employees []models.Employee) []move {
	moves := make([]move, 0)
	for _, e := range employees {
		for _, m := range employees {
			if m.ID >= e.ID || e.ReportsTo(m.ID) {
				continue
			}
			moves = append(moves, move{EmployeeID: e.ID, NewManagerID: m.ID})
		}
	}
	return moves
}

func executeLoad(ctx context.Context, client *http.Client, cfg benchConfig, moves []move, rnd *rand.Rand, recorder *moveRecorder) {
	interval := time.Duration(float64(time.Second) / cfg.RPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	totalRequests := int(math.Round(cfg.Duration.Seconds() * cfg.RPS))
	if totalRequests == 0 {
		totalRequests = 1
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	for i := 0; i < totalRequests; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		mv := moves[rnd.Intn(len(moves))]
		wg.Add(1)
		go func(mv move) {
			defer wg.Done()
			duration, status, err := postMove(ctx, client, cfg.BaseURL, mv)
			recorder.record(duration, status, err)
		}(mv)
	}
}

func postMove(ctx context.Context, client *http.Client, baseURL string, mv move) (time.Duration, int, error) {
	body, err := json.Marshal(mv)
	if err != nil {
		return 0, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chart/move", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, err
	}
	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return 0, resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return duration, resp.StatusCode, nil
}

func printSummary(out io.Writer, summary benchSummary) {
	fmt.Fprintf(out, "\nReassignment benchmark summary:\n")
	fmt.Fprintf(out, "  Employees: %d\n", summary.Employees)
	fmt.Fprintf(out, "  Target RPS: %.2f, Actual RPS: %.2f\n", summary.TargetRPS, summary.ActualRPS)
	fmt.Fprintf(out, "  Requests: %d total, %d succeeded, %d rejected, %d failed\n",
		summary.Totals.Requested, summary.Totals.Succeeded, summary.Totals.Rejected, summary.Totals.Failed)
	fmt.Fprintf(out, "  Move latency avg: %.2f ms, p95: %.2f ms, max: %.2f ms\n",
		summary.Move.AverageMs, summary.Move.P95Ms, summary.Move.MaxMs)
	if len(summary.Errors) > 0 {
		fmt.Fprintln(out, "  Sample errors:")
		for _, err := range summary.Errors {
			fmt.Fprintf(out, "   - %s\n", err)
		}
	}
}

func writeReport(summary benchSummary, path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
