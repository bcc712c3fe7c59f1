package digest

import (
	"fmt"
	"strings"

	"github.com/mohsen-qasemi/herald/utils"
)

// truncation marker appended to items cut at the character budget
const truncMarker = "..."

// FormatForLLM renders an aggregation result into the budgeted text handed
// to the summarizer. Pure and deterministic: identical input and limits
// produce byte-identical output. This is the seam where the downstream
// model's size limits are enforced, decoupled from fetching.
//
// Layout: global header, then per source (in the result's stored order) a
// header line with title and item count followed by "[dd.mm HH:MM] text"
// lines. Each item is cut at maxCharsPerItem with a marker; emission stops
// globally at maxItems with a notice stating how many of the total were
// shown.
func FormatForLLM(result *Result, maxItems, maxCharsPerItem int) string {
	if result.TotalItems == 0 {
		return "No new messages for the requested period."
	}

	var out []string
	out = append(out, fmt.Sprintf("Collected %d messages over the last %d hours:\n",
		result.TotalItems, result.WindowHours))

	count := 0
	truncated := false
	for _, src := range result.Sources {
		if len(src.Items) == 0 || count >= maxItems {
			continue
		}
		out = append(out, fmt.Sprintf("\n### %s", src.Title))
		out = append(out, fmt.Sprintf("Messages: %d\n", len(src.Items)))

		for _, item := range src.Items {
			if count >= maxItems {
				truncated = true
				break
			}
			text := item.Text
			if cut := utils.TruncateRunes(text, maxCharsPerItem); cut != text {
				text = cut + truncMarker
			}
			out = append(out, fmt.Sprintf("[%s] %s", item.Timestamp.Format("02.01 15:04"), text))
			out = append(out, "")
			count++
		}
	}

	if truncated || count < result.TotalItems {
		out = append(out, fmt.Sprintf("\n... (showing first %d of %d messages)", count, result.TotalItems))
	}
	return strings.Join(out, "\n")
}

// CountItemMarkers estimates how many items a budgeted text contains by
// counting its "[dd.mm ..." line markers. Best-effort structural count,
// not ground truth: an item whose text begins a line with '[' inflates it.
func CountItemMarkers(budgeted string) int {
	count := 0
	for _, line := range strings.Split(budgeted, "\n") {
		if strings.HasPrefix(line, "[") {
			count++
		}
	}
	return count
}
