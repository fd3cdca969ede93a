// Package stage derives the provisioning pipeline state from log lines.
package stage

import (
	"regexp"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// Definition describes one stage of the pipeline. Order in the definition
// slice is pipeline order: the active stage implies everything before it is
// done and everything after it is pending.
type Definition struct {
	ID     string
	Label  string
	Detail string

	// Patterns mark a line as belonging to this stage. All are compiled
	// case-insensitive.
	Patterns []*regexp.Regexp

	// DetailFromLine refines the stage detail from a matching line. It must
	// be a pure function of (line, current) and return current unchanged
	// when the line carries no new information.
	DetailFromLine func(line, current string) string

	// DetailFactory computes the initial detail from runtime context instead
	// of the static Detail string.
	DetailFactory func(facts domain.Facts, restore domain.RestoreState) string

	// SkipWhen marks the stage as skipped for this poll. Skipped stages are
	// reported done and never selected as active.
	SkipWhen func(facts domain.Facts) bool
}

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// Compute derives the per-stage states from the tail lines. Lines are
// scanned oldest to newest and the last match wins, so the reported stage
// follows the most recent log activity even when an earlier stage's pattern
// reappears. Within one line the first matching definition wins and the rest
// are not consulted.
func Compute(defs []Definition, lines []string, facts domain.Facts, restore domain.RestoreState) []domain.StageState {
	stages := make([]domain.StageState, 0, len(defs))
	for _, def := range defs {
		detail := def.Detail
		if def.DetailFactory != nil {
			detail = def.DetailFactory(facts, restore)
		}
		st := domain.StageState{
			ID:     def.ID,
			Label:  def.Label,
			Detail: detail,
			Status: domain.StagePending,
		}
		if def.SkipWhen != nil && def.SkipWhen(facts) {
			st.Skipped = true
			st.Status = domain.StageDone
		}
		stages = append(stages, st)
	}

	current := -1
	for _, line := range lines {
		for idx, def := range defs {
			if stages[idx].Skipped {
				continue
			}
			if !matchesAny(def.Patterns, line) {
				continue
			}
			current = idx
			if def.DetailFromLine != nil {
				if detail := def.DetailFromLine(line, stages[idx].Detail); detail != "" {
					stages[idx].Detail = detail
				}
			}
			break
		}
	}

	if current < 0 {
		// Cold start: nothing matched yet, the first real stage is up next.
		for idx := range stages {
			if stages[idx].Skipped {
				continue
			}
			stages[idx].Status = domain.StageActive
			break
		}
		return stages
	}

	for idx := range stages {
		if stages[idx].Skipped {
			continue
		}
		switch {
		case idx < current:
			stages[idx].Status = domain.StageDone
		case idx == current:
			stages[idx].Status = domain.StageActive
		default:
			stages[idx].Status = domain.StagePending
		}
	}
	return stages
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, p := range patterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
