package testevents

import (
	"fmt"
	"log"
)

// Tile statuses a derived board may legitimately report.
var knownStatuses = map[string]bool{
	"verified":           true,
	"requires_action":    true,
	"submitted":          true,
	"partially_complete": true,
	"unlocked":           true,
	"locked":             true,
}

// verifyResults checks the derived board and chart series for internal
// consistency after the submission run.
func verifyResults(config *Config, view BoardView, series []ChartPoint) error {
	log.Println("🔍 Verifying results...")

	if err := verifyScoreboard(view); err != nil {
		return fmt.Errorf("scoreboard verification failed: %w", err)
	}
	log.Println("✅ Scoreboard ordering verified")

	if err := verifyStatuses(view); err != nil {
		return fmt.Errorf("status verification failed: %w", err)
	}
	log.Println("✅ Tile statuses verified")

	if len(series) > 0 {
		if err := verifyHistoryAgainstBoard(view, series); err != nil {
			log.Printf("⚠️  History consistency warning: %v", err)
		} else {
			log.Println("✅ History final point matches board scores")
		}
	}

	displayScoreboard(view, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyScoreboard checks rank contiguity and descending score order.
func verifyScoreboard(view BoardView) error {
	for i, entry := range view.Scoreboard {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d", i, entry.Rank)
		}
		if i > 0 && entry.Score > view.Scoreboard[i-1].Score {
			return fmt.Errorf("entry %d has higher score than entry %d", i, i-1)
		}
	}
	return nil
}

// verifyStatuses checks that every tile reports a known classification.
func verifyStatuses(view BoardView) error {
	for _, tb := range view.Teams {
		for _, tile := range tb.Tiles {
			if !knownStatuses[tile.Status] {
				return fmt.Errorf("team %s tile %s has unknown status %q", tb.Team, tile.TileID, tile.Status)
			}
		}
	}
	return nil
}

// verifyHistoryAgainstBoard checks that the replayed series lands on the
// same totals the scoreboard reports.
func verifyHistoryAgainstBoard(view BoardView, series []ChartPoint) error {
	final := series[len(series)-1].Scores
	for _, entry := range view.Scoreboard {
		if got := final[entry.Team]; got != entry.Score {
			return fmt.Errorf("team %s: history final %d, board %d", entry.Team, got, entry.Score)
		}
	}
	return nil
}

// displayScoreboard shows the ranked scoreboard and optional per-team detail.
func displayScoreboard(view BoardView, verbose bool) {
	log.Printf("🏆 Scoreboard (%d teams):", len(view.Scoreboard))
	for _, entry := range view.Scoreboard {
		log.Printf("   %d. %s - Score: %d", entry.Rank, entry.Team, entry.Score)
	}

	if verbose {
		for _, tb := range view.Teams {
			counts := make(map[string]int)
			for _, tile := range tb.Tiles {
				counts[tile.Status]++
			}
			log.Printf("📊 %s status mix: %v", tb.Team, counts)
		}
	}
}
