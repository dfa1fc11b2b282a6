// Package pipeline serves the kanban view of the candidate pipeline: the
// board groups candidates into one column per canonical stage, and drag
// resolution turns a drop target into a stage mutation on the dragged
// candidate.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/stage"
)

// Column is one kanban lane.
type Column struct {
	Stage       string                 `json:"stage"`
	DisplayName string                 `json:"displayName"`
	Color       string                 `json:"color"`
	Count       int                    `json:"count"`
	Candidates  []candidates.Candidate `json:"candidates"`
}

// Board is the full kanban view.
type Board struct {
	Columns []Column `json:"columns"`
	Total   int      `json:"total"`
}

// Service builds boards and applies drag moves on top of the candidate
// service.
type Service struct {
	Candidates *candidates.Service
	Now        func() time.Time
}

func NewService(svc *candidates.Service) *Service {
	return &Service{
		Candidates: svc,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// Board groups every candidate under its canonical stage column, in stage
// order. Legacy stage spellings land in the same column as their canonical
// form, so a column is never duplicated.
func (s *Service) Board(ctx context.Context, filter candidates.Filter) (Board, error) {
	list, err := s.Candidates.List(ctx, filter, "")
	if err != nil {
		return Board{}, err
	}

	byStage := make(map[stage.Canonical][]candidates.Candidate)
	for _, c := range list {
		key := stage.Normalize(c.Stage)
		byStage[key] = append(byStage[key], c)
	}

	defs := stage.Definitions()
	columns := make([]Column, 0, len(defs))
	for _, def := range defs {
		members := byStage[def.Name]
		if members == nil {
			members = []candidates.Candidate{}
		}
		columns = append(columns, Column{
			Stage:       string(def.Name),
			DisplayName: def.DisplayName,
			Color:       def.Color,
			Count:       len(members),
			Candidates:  members,
		})
	}
	return Board{Columns: columns, Total: len(list)}, nil
}

// ResolveDrop maps a drop target to the destination stage. The target is
// either a stage column name or the id of the card dropped onto, in which
// case the destination is that card's stage. The second return is true when
// the move is a no-op: dragged and destination resolve to the same canonical
// stage.
func ResolveDrop(dragged candidates.Candidate, target string, byID func(int64) (candidates.Candidate, bool)) (stage.Canonical, bool, error) {
	if target == "" {
		return "", false, fmt.Errorf("%w: drop target is required", candidates.ErrInvalidInput)
	}

	var destination stage.Canonical
	if id, err := strconv.ParseInt(target, 10, 64); err == nil {
		other, ok := byID(id)
		if !ok {
			return "", false, fmt.Errorf("%w: drop target candidate %d", candidates.ErrNotFound, id)
		}
		destination = stage.Normalize(other.Stage)
	} else {
		destination = stage.Normalize(target)
		if !stage.IsCanonical(destination) {
			return "", false, fmt.Errorf("%w: unknown stage column %q", candidates.ErrInvalidInput, target)
		}
	}

	if stage.Normalize(dragged.Stage) == destination {
		return destination, true, nil
	}
	return destination, false, nil
}

// Drag applies a kanban drop: resolve the destination and, unless it is a
// no-op, move the dragged candidate there with a note recording the move.
func (s *Service) Drag(ctx context.Context, candidateID int64, target string) (candidates.Candidate, bool, error) {
	dragged, err := s.Candidates.Get(ctx, candidateID)
	if err != nil {
		return candidates.Candidate{}, false, err
	}

	all, err := s.Candidates.List(ctx, candidates.Filter{}, "")
	if err != nil {
		return candidates.Candidate{}, false, err
	}
	byID := func(id int64) (candidates.Candidate, bool) {
		for _, c := range all {
			if c.ID == id {
				return c, true
			}
		}
		return candidates.Candidate{}, false
	}

	destination, noop, err := ResolveDrop(dragged, target, byID)
	if err != nil {
		return candidates.Candidate{}, false, err
	}
	if noop {
		return dragged, false, nil
	}

	toStage := string(destination)
	notes := fmt.Sprintf("Moved to %s stage via kanban view on %s", toStage, s.Now().Format("2006-01-02"))
	updated, err := s.Candidates.Update(ctx, candidateID, candidates.UpdateInput{
		Stage:            &toStage,
		StageChangeNotes: notes,
	})
	if err != nil {
		return candidates.Candidate{}, false, err
	}
	return updated, true, nil
}
