package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
	"github.com/AlekseyZapadovnikov/org-chart/internal/repository"
)

func TestGenerateCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--count", "12", "--seed", "5"})

	require.NoError(t, cmd.Execute())

	var parsed struct {
		Employees []models.Employee `yaml:"employees"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &parsed))
	require.Len(t, parsed.Employees, 12)
}

func TestGenerateCommandRejectsZeroCount(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "--count", "0"})

	require.ErrorContains(t, cmd.Execute(), "--count must be positive")
}

func TestDatasetFlags(t *testing.T) {
	demo, err := (&datasetFlags{}).employees()
	require.NoError(t, err)
	require.Len(t, demo, 17)

	generated, err := (&datasetFlags{generate: 30, seed: 1}).employees()
	require.NoError(t, err)
	require.Len(t, generated, 30)

	_, err = (&datasetFlags{file: "org.yaml", generate: 3}).employees()
	require.ErrorContains(t, err, "mutually exclusive")
}

func TestBuildMoves(t *testing.T) {
	employees := []models.Employee{
		{ID: 1},
		{ID: 2, ManagerID: models.ManagerRef(1)},
		{ID: 3, ManagerID: models.ManagerRef(1)},
	}

	moves := buildMoves(employees)
	require.Equal(t, []move{{EmployeeID: 3, NewManagerID: 2}}, moves)
}

func TestCalcLatency(t *testing.T) {
	require.Equal(t, latencySummary{}, calcLatency(nil))

	samples := make([]time.Duration, 0, 20)
	for i := 1; i <= 20; i++ {
		samples = append(samples, time.Duration(i)*time.Millisecond)
	}
	got := calcLatency(samples)
	require.Equal(t, 20, got.Samples)
	require.InDelta(t, 10.5, got.AverageMs, 0.001)
	require.InDelta(t, 19, got.P95Ms, 0.001)
	require.InDelta(t, 20, got.MaxMs, 0.001)
}

func TestRunBench(t *testing.T) {
	var moves atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/chart/employees", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.EmployeesResponse{Employees: repository.DemoEmployees()})
	})
	mux.HandleFunc("/chart/move", func(w http.ResponseWriter, r *http.Request) {
		var mv move
		require.NoError(t, json.NewDecoder(r.Body).Decode(&mv))
		require.Less(t, mv.NewManagerID, mv.EmployeeID)
		moves.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"result":{}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	report := filepath.Join(t.TempDir(), "bench.json")
	cfg := benchConfig{
		BaseURL:        srv.URL,
		RPS:            50,
		Duration:       100 * time.Millisecond,
		RequestTimeout: time.Second,
		HealthTimeout:  time.Second,
		ReportPath:     report,
		Seed:           1,
	}

	var out bytes.Buffer
	require.NoError(t, runBench(context.Background(), cfg, &out))
	require.Equal(t, int32(5), moves.Load())
	require.Contains(t, out.String(), "5 succeeded")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var summary benchSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	require.Equal(t, 17, summary.Employees)
	require.Equal(t, 5, summary.Totals.Requested)
}

func TestWaitForHealthyStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := waitForHealthy(ctx, srv.Client(), srv.URL, time.Minute)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestExecuteLoadStopsOnCancel(t *testing.T) {
	var moves atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		moves.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := benchConfig{
		BaseURL:  srv.URL,
		RPS:      1,
		Duration: time.Hour,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recorder := &moveRecorder{}
	start := time.Now()
	executeLoad(ctx, srv.Client(), cfg, []move{{EmployeeID: 3, NewManagerID: 2}}, rand.New(rand.NewSource(1)), recorder)
	require.Less(t, time.Since(start), 5*time.Second)
	require.Zero(t, moves.Load())
	require.Zero(t, recorder.toSummary(time.Second, cfg, 0).Totals.Requested)
}
