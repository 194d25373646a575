package testevents

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/okian/bingo/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	playerPoolDivisor  = 10000
)

// Constants for the submission mix. Re-submissions for a (team, tile)
// pair the board already holds exercise the overwrite path; incomplete
// submissions exercise partial states.
const (
	completeProbability = 0.7
	notesProbability    = 0.3
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pickRandom returns a random element of choices.
func pickRandom(choices []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(choices))))
	return choices[n.Int64()]
}

// generateSubmissions creates the specified number of submissions spread
// across the board's teams and tiles.
func generateSubmissions(ctx context.Context, config *Config, teams, tiles []string, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("teams", len(teams)),
		logger.Int("tiles", len(tiles)))

	if len(teams) == 0 || len(tiles) == 0 {
		return nil, fmt.Errorf("board has no teams or tiles to submit against")
	}

	// Generate submissions concurrently
	type subResult struct {
		index int
		sub   Submission
		err   error
	}

	resultChan := make(chan subResult, config.NumEvents)

	// Use worker pool for generation
	workerCount := minInt(config.Workers, config.NumEvents)
	subsPerWorker := config.NumEvents / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * subsPerWorker
		end := start + subsPerWorker
		if worker == workerCount-1 {
			end = config.NumEvents // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- subResult{index: i, err: ctx.Err()}
					return
				default:
					sub := generateSingleSubmission(config, teams, tiles)
					resultChan <- subResult{index: i, sub: sub}
				}
			}
		}(start, end)
	}

	// Collect results
	submissions := make([]Submission, config.NumEvents)
	for i := 0; i < config.NumEvents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate submission %d: %w", result.index, result.err)
			}
			submissions[result.index] = result.sub
		}
	}

	stats.SubmissionsGenerated = len(submissions)
	logger.Get().Info(ctx, "generated submissions successfully", logger.Int("count", len(submissions)))

	return submissions, nil
}

// generateSingleSubmission creates one randomized submission.
func generateSingleSubmission(config *Config, teams, tiles []string) Submission {
	n, _ := rand.Int(rand.Reader, big.NewInt(playerPoolDivisor))
	player := "player_" + strconv.FormatInt(n.Int64(), 10)

	sub := Submission{
		Team:     pickRandom(teams),
		TileID:   pickRandom(tiles),
		Player:   player,
		Password: config.Password,
		Complete: getRandomFloat() < completeProbability,
	}
	if getRandomFloat() < notesProbability {
		sub.Notes = "load test submission by " + player
	}
	return sub
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
