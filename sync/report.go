package sync

import "strings"

// Report is the accumulated outcome of one source synchronization
type Report struct {
	Source     string
	Body       string
	Failed     int
	HasChanges bool
}

// Combine merges per-source reports into one notification body, in the
// given order. Sources without changes are omitted, remaining bodies are
// separated by a blank line. An empty result means there is nothing to
// notify about
func Combine(reports ...*Report) string {
	bodies := make([]string, 0, len(reports))

	for _, report := range reports {
		if report == nil || !report.HasChanges {
			continue
		}

		bodies = append(bodies, report.Body)
	}

	return strings.Join(bodies, "\n\n")
}
