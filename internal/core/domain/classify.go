package domain

import "strings"

const noDetailReason = "remote call failed with no summary and no error detail"

// Classify maps a raw remote-call result onto exactly one ChunkOutcome
// variant. A non-erroring empty response is success, not failure: some
// endpoints process asynchronously and acknowledge with an empty body
// before any result exists.
func Classify(res SummaryResult) ChunkOutcome {
	if !res.Succeeded {
		reason := strings.TrimSpace(res.ErrorDetail)
		if reason == "" {
			reason = noDetailReason
		}
		return FailureOutcome(reason)
	}
	if strings.TrimSpace(res.Text) != "" {
		return ContentOutcome(res.Text)
	}
	return EmptyOutcome()
}
