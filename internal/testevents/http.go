package testevents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSubmissions posts submissions concurrently using worker pools
func submitSubmissions(ctx context.Context, config *Config, submissions []Submission, stats *Stats) error {
	log.Printf("📤 Submitting %d submissions with %d workers...", len(submissions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/submissions"

	// Counters for statistics
	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	subChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingle(ctx, client, url, sub)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, rejected: %d, failed: %d)",
								total, len(submissions), succ, rej, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, rejected: %d, failed: %d)",
								total, len(submissions), succ, rej, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send submissions to workers
	go func() {
		defer close(subChan)
		for _, sub := range submissions {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.SubmissionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SubmissionsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SubmissionsRejected = int(atomic.LoadInt64(&rejected))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Submission run completed:
   Successful: %d
   Rejected: %d
   Failed: %d
`, stats.SubmissionsSuccessful, stats.SubmissionsRejected, stats.SubmissionsFailed)

	return nil
}

// submitSingle posts a single submission and returns the result
func submitSingle(ctx context.Context, client *HTTPClient, url string, sub Submission) string {
	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusCreated:
		var ack SubmissionAck
		if err := unmarshalJSON(body, &ack); err == nil && ack.EventID != "" {
			return "success"
		}
		return "success" // Assume success for 201 even if parsing fails
	case 400, 403, 404:
		// Credential or validation rejections
		return "rejected"
	default:
		return "failed"
	}
}
