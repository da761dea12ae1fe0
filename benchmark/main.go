// Package main provides a performance benchmarking tool for the panel CLI.
// It generates synthetic attendance exports of increasing size, runs each report
// command several times with and without history tracking, treating the first
// successful run as cold and averaging the rest as warm, and writes a CSV summary.
//
// Prerequisites:
// - panel binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic datasets are generated
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the timings of one command on one dataset.
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoTrackTime string
	ColdTime    string
	WarmTime    string
}

// Dataset describes a synthetic set of attendance exports.
type Dataset struct {
	Name     string
	Sessions int
	Students int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoTrackRuns int
	TrackRuns   int
	Datasets    []Dataset
	Commands    [][]string
}

const exportHeader = "Nombre,Apellido,Correo,Duración,Hora de unión,Hora de salida\n"

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoTrackRuns: 3,
		TrackRuns:   4,
		Datasets: []Dataset{
			{Name: "small", Sessions: 10, Students: 40},
			{Name: "medium", Sessions: 60, Students: 300},
			{Name: "large", Sessions: 200, Students: 1500},
		},
		Commands: [][]string{
			{"students"},
			{"ranking"},
			{"summary"},
			{"heatmap"},
		},
	}

	if _, err := exec.LookPath("panel"); err != nil {
		fmt.Printf("Prerequisites check failed: panel binary not found in PATH\n")
		os.Exit(1)
	}

	for _, ds := range config.Datasets {
		if err := generateDataset(config.WorkDir, ds); err != nil {
			fmt.Printf("Failed to generate dataset %s: %v\n", ds.Name, err)
			os.Exit(1)
		}
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// generateDataset writes one attendance export per session with a rotating subset of students.
func generateDataset(workDir string, ds Dataset) error {
	dir := filepath.Join(workDir, ds.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	areas := []string{"Matemáticas", "Lectura Crítica", "Ciencias Naturales", "Sociales", "Inglés"}
	prefixes := []string{"SG - ", "IETAC - ", ""}
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	for s := range ds.Sessions {
		area := areas[s%len(areas)]
		date := start.AddDate(0, 0, s)
		name := fmt.Sprintf("Asistencia de %s %d (%s).csv", area, s/len(areas)+1, date.Format("2006_01_02"))

		content := exportHeader
		for i := range ds.Students {
			// Roughly two thirds of the students attend each session
			if (i+s)%3 == 0 {
				continue
			}
			minutes := 20 + (i*7+s*11)%110
			joinMinute := (i + s) % 20
			content += fmt.Sprintf("%sEstudiante,Número %d,e%d@example.com,%s,2:%02d p.m.,4:%02d p.m.\n",
				prefixes[i%len(prefixes)], i, i, formatDuration(minutes), 30+joinMinute%30, joinMinute)
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	fmt.Printf("Generated %s: %d sessions, %d students\n", ds.Name, ds.Sessions, ds.Students)
	return nil
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}

// runBenchmarks executes all commands across the generated datasets.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, untracked: %d runs, tracked: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.NoTrackRuns, config.TrackRuns)

	for _, ds := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", ds.Name)
		dataDir := filepath.Join(config.WorkDir, ds.Name)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, ds.Name, dataDir, command))
		}
	}

	return results
}

// runBenchmarkSuite runs a command without and with history tracking.
func runBenchmarkSuite(config BenchmarkConfig, dataset, dataDir string, command []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command[0], dataset)

	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dataDir, command, historyBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noTrackAvg := runPhase("none", config.NoTrackRuns, "Untracked")
	coldTime, warmAvg := runPhase("sqlite", config.TrackRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", noTrackAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command[0],
		NoTrackTime: noTrackAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a panel command several times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, dataDir string, command []string, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, dataDir,
		"--history-backend", historyBackend,
		"--notes-backend", "none",
		"--workers", fmt.Sprint(config.Workers),
		"--output", "json",
		"--output-file", os.DevNull,
	)

	var times []float64
	for range numRuns {
		start := time.Now()
		cmd := exec.Command("panel", args...)

		done := make(chan error, 1)
		go func() {
			done <- cmd.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("panel_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, r.Command, r.NoTrackTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command[0])
		for _, r := range results {
			if r.Command == command[0] {
				fmt.Printf("  %-8s: Untracked: %s, Cold: %s, Warm: %s\n", r.Dataset, r.NoTrackTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
