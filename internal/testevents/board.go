package testevents

import (
	"context"
	"fmt"
	"log"
)

// fetchBoard retrieves the full derived board view.
func fetchBoard(ctx context.Context, config *Config, stats *Stats) (BoardView, error) {
	log.Println("🎯 Fetching board view...")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/board")
	if err != nil {
		return BoardView{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return BoardView{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return BoardView{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var view BoardView
	if err := unmarshalJSON(body, &view); err != nil {
		return BoardView{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if stats != nil {
		stats.BoardTeams = len(view.Teams)
	}
	log.Printf("✅ Retrieved board with %d teams", len(view.Teams))

	return view, nil
}

// fetchHistory retrieves the score-over-time chart series.
func fetchHistory(ctx context.Context, config *Config, stats *Stats) ([]ChartPoint, error) {
	log.Println("📈 Fetching history series...")

	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/history")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var series []ChartPoint
	if err := unmarshalJSON(body, &series); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.HistoryPoints = len(series)
	log.Printf("✅ Retrieved %d history points", len(series))

	return series, nil
}

// boardDimensions extracts the team names and tile ids from a board view.
func boardDimensions(view BoardView) (teams, tiles []string) {
	teams = make([]string, 0, len(view.Teams))
	for _, tb := range view.Teams {
		teams = append(teams, tb.Team)
	}
	if len(view.Teams) > 0 {
		tiles = make([]string, 0, len(view.Teams[0].Tiles))
		for _, tile := range view.Teams[0].Tiles {
			tiles = append(tiles, tile.TileID)
		}
	}
	return teams, tiles
}
