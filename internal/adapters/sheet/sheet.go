// Package sheet parses CSV exports of the external tables into strictly
// typed records.
//
// Cells come from a loosely-typed spreadsheet, so every field is parsed
// with a deterministic fallback instead of propagating raw values:
// unparsable numbers become 0, unparsable booleans false, unparsable
// timestamps the zero time, and malformed JSON cells keep their raw text.
package sheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/bingo/internal/domain/model"
)

// Tile table column positions.
const (
	tileColID = iota
	tileColName
	tileColDescription
	tileColPrerequisites
	tileColTop
	tileColLeft
	tileColWidth
	tileColHeight
	tileColPoints
	tileColRotation
	tileColOverrides
	tileColCount
)

// Event log column positions. The archived column is optional; older
// exports predate it.
const (
	eventColTimestamp = iota
	eventColCompletionTimestamp
	eventColPlayer
	eventColTeam
	eventColTileID
	eventColEvidence
	eventColNotes
	eventColAdminVerified
	eventColIsComplete
	eventColRequiresAction
	eventColArchived
	eventColMin = eventColArchived
)

// ReadTiles parses a tile definition table from r. The first row is
// treated as a header and skipped.
func ReadTiles(r io.Reader) ([]model.TileDefinition, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	tiles := make([]model.TileDefinition, 0, len(rows))
	for _, row := range rows {
		row = pad(row, tileColCount)
		id := strings.TrimSpace(row[tileColID])
		if id == "" {
			continue
		}
		tiles = append(tiles, model.TileDefinition{
			TileID:        id,
			Name:          row[tileColName],
			Description:   row[tileColDescription],
			Prerequisites: row[tileColPrerequisites],
			TopPct:        parseFloat(row[tileColTop]),
			LeftPct:       parseFloat(row[tileColLeft]),
			WidthPct:      parseFloat(row[tileColWidth]),
			HeightPct:     parseFloat(row[tileColHeight]),
			Points:        parseInt(row[tileColPoints]),
			Rotation:      row[tileColRotation],
			Overrides:     row[tileColOverrides],
		})
	}
	return tiles, nil
}

// ReadEvents parses a submission log from r in insertion order. The
// first row is treated as a header and skipped.
func ReadEvents(r io.Reader) ([]model.SubmissionEvent, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	events := make([]model.SubmissionEvent, 0, len(rows))
	for i, row := range rows {
		row = pad(row, eventColMin+1)
		events = append(events, model.SubmissionEvent{
			EventID:             fmt.Sprintf("row-%d", i+1),
			Timestamp:           parseTime(row[eventColTimestamp]),
			CompletionTimestamp: parseTimePtr(row[eventColCompletionTimestamp]),
			Player:              row[eventColPlayer],
			Team:                strings.TrimSpace(row[eventColTeam]),
			TileID:              strings.TrimSpace(row[eventColTileID]),
			Evidence:            parseEvidence(row[eventColEvidence]),
			Notes:               row[eventColNotes],
			AdminVerified:       parseBool(row[eventColAdminVerified]),
			IsComplete:          parseBool(row[eventColIsComplete]),
			RequiresAction:      parseBool(row[eventColRequiresAction]),
			Archived:            parseBool(row[eventColArchived]),
		})
	}
	return events, nil
}

// ReadTilesFile loads a tile table from a CSV file on disk.
func ReadTilesFile(path string) ([]model.TileDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tiles file: %w", err)
	}
	defer f.Close()
	return ReadTiles(f)
}

// ReadEventsFile loads a submission log from a CSV file on disk.
func ReadEventsFile(path string) ([]model.SubmissionEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()
	return ReadEvents(f)
}

func readAll(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return false
	}
	return b
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimePtr(s string) *time.Time {
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

// parseEvidence accepts either a JSON list of {link, label} objects or
// an opaque string; anything that fails JSON parsing is kept verbatim as
// a single link.
func parseEvidence(s string) []model.EvidenceLink {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var links []model.EvidenceLink
		if err := json.Unmarshal([]byte(s), &links); err == nil {
			return links
		}
	}
	return []model.EvidenceLink{{Link: s}}
}
