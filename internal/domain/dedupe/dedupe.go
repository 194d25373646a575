// Package dedupe detects ambiguous duplicate rows in the submission log.
//
// Normal operation keeps at most one non-archived row per (team, tile)
// key: the write path overwrites in place. More than one row for a key
// therefore signals an anomaly (racing writers, manual sheet edits) that
// is surfaced to the admin path for manual resolution rather than
// auto-fixed.
package dedupe

import (
	"fmt"
	"sort"

	"github.com/okian/bingo/internal/domain/model"
)

// Conflict is a group of two or more non-archived rows sharing one key.
type Conflict struct {
	Key    model.Key
	Events []model.SubmissionEvent // in log order
}

// Detect groups non-archived events by key and returns every group with
// more than one member, ordered by team then tile for stable output.
func Detect(events []model.SubmissionEvent) []Conflict {
	groups := make(map[model.Key][]model.SubmissionEvent)
	for _, e := range events {
		if e.Archived || !e.Addressable() {
			continue
		}
		k := e.KeyOf()
		groups[k] = append(groups[k], e)
	}

	var conflicts []Conflict
	for k, g := range groups {
		if len(g) > 1 {
			conflicts = append(conflicts, Conflict{Key: k, Events: g})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Key.Team != conflicts[j].Key.Team {
			return conflicts[i].Key.Team < conflicts[j].Key.Team
		}
		return conflicts[i].Key.TileID < conflicts[j].Key.TileID
	})
	return conflicts
}

// PlanResolution returns the event ids to archive so that keepEventID
// becomes the only live row in the group. Archiving is the sole mutation
// exposed to admins beyond field-level status edits.
func (c Conflict) PlanResolution(keepEventID string) ([]string, error) {
	found := false
	archive := make([]string, 0, len(c.Events)-1)
	for _, e := range c.Events {
		if e.EventID == keepEventID {
			found = true
			continue
		}
		archive = append(archive, e.EventID)
	}
	if !found {
		return nil, fmt.Errorf("%w: event %q not in conflict group %s/%s",
			ErrKeeperNotInGroup, keepEventID, c.Key.Team, c.Key.TileID)
	}
	return archive, nil
}
