package crawl

import "fmt"

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatProgress renders a progress event as a single status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Type {
	case ProgressCompleted:
		return fmt.Sprintf("[%d/%d] %s", event.Completed, event.Total, TruncateURL(event.URL, 70))
	case ProgressFailed:
		return fmt.Sprintf("[skip] %s: %v", TruncateURL(event.URL, 60), event.Error)
	case ProgressFinished:
		return fmt.Sprintf("Done: %d pages", event.Completed)
	default:
		return ""
	}
}
