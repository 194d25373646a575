package testevents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bingo/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete board test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting board load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("events", config.NumEvents),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Discover the board's teams and tiles
	initial, err := fetchBoard(ctx, config, nil)
	if err != nil {
		return fmt.Errorf("board discovery failed: %w", err)
	}
	teams, tiles := boardDimensions(initial)

	// Step 3: Generate submissions
	submissions, err := generateSubmissions(ctx, config, teams, tiles, stats)
	if err != nil {
		return fmt.Errorf("submission generation failed: %w", err)
	}

	// Step 4: Submit concurrently
	if err := submitSubmissions(ctx, config, submissions, stats); err != nil {
		return fmt.Errorf("submission run failed: %w", err)
	}

	// Step 5: Let in-flight writes settle
	logger.Get().Info(ctx, "waiting for writes to settle")
	time.Sleep(SettleDelay)

	// Step 6: Fetch the derived board
	view, err := fetchBoard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("board retrieval failed: %w", err)
	}

	// Step 7: Fetch the chart series
	series, err := fetchHistory(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("history retrieval failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(config, view, series); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save submissions to file
	if err := saveSubmissionsToFile(ctx, config, submissions); err != nil {
		logger.Get().Warn(ctx, "failed to save submissions to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSubmissionsToFile saves the generated submissions to a JSON file.
func saveSubmissionsToFile(ctx context.Context, config *Config, submissions []Submission) error {
	if len(submissions) == 0 {
		return fmt.Errorf("no submissions to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_submissions_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, sub := range submissions {
		jsonData, err := marshalJSON(sub)
		if err != nil {
			return fmt.Errorf("failed to marshal submission %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write submission %d: %w", i, err)
		}

		// Add comma except for last entry
		if i < len(submissions)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, submissionsPerSecond float64

	if stats.SubmissionsSubmitted > 0 {
		successRate = float64(stats.SubmissionsSuccessful) / float64(stats.SubmissionsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		submissionsPerSecond = float64(stats.SubmissionsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("submissionsGenerated", stats.SubmissionsGenerated),
		logger.Int("submissionsSubmitted", stats.SubmissionsSubmitted),
		logger.Int("submissionsSuccessful", stats.SubmissionsSuccessful),
		logger.Int("submissionsRejected", stats.SubmissionsRejected),
		logger.Int("submissionsFailed", stats.SubmissionsFailed),
		logger.Int("historyPoints", stats.HistoryPoints),
		logger.Int("boardTeams", stats.BoardTeams),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("submissionsPerSecond", submissionsPerSecond))
}
