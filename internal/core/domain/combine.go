package domain

import (
	"fmt"
	"strings"
)

// Combine assembles the final document text and diagnostics from the
// ordered per-chunk outcomes. Outcomes must be in original chunk order;
// Combine never reorders them.
//
// A single-chunk run passes its content through verbatim. A multi-chunk
// run concatenates content-bearing sections under "Part N:" labels
// separated by a blank line. Labels are numbered over content sections
// only, so dropped EmptySuccess chunks leave no gaps in the visible
// numbering. Empty outcomes never produce placeholder text.
func Combine(outcomes []ChunkOutcome) (string, SummaryStats) {
	stats := SummaryStats{TotalChunks: len(outcomes)}

	var sections []string
	for i, outcome := range outcomes {
		switch outcome.Kind {
		case OutcomeContent:
			stats.ContentCount++
			sections = append(sections, outcome.Text)
		case OutcomeEmpty:
			stats.EmptyCount++
		case OutcomeFailure:
			stats.FailureCount++
			stats.Failures = append(stats.Failures, ChunkFailure{
				Index:  i + 1,
				Reason: outcome.Reason,
			})
		}
	}

	if len(sections) == 0 {
		return "", stats
	}
	if stats.TotalChunks == 1 {
		return sections[0], stats
	}

	labeled := make([]string, len(sections))
	for i, text := range sections {
		labeled[i] = fmt.Sprintf("Part %d:\n%s", i+1, text)
	}
	return strings.Join(labeled, "\n\n"), stats
}

// StatusFor derives the run-level status from the combined stats.
// Cancellation is decided by the orchestrator, not here.
func StatusFor(stats SummaryStats) RunStatus {
	if stats.ContentCount == 0 && stats.FailureCount > 0 {
		return RunAllFailed
	}
	return RunCompleted
}
