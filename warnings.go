package examine

import (
	"fmt"
	"strings"
)

// WarningCode classifies a non-fatal processing event.
type WarningCode string

const (
	// WarnPageCap indicates the document had more pages than the cap.
	WarnPageCap WarningCode = "page_cap"

	// WarnDiagramCap indicates paints beyond the per-page diagram cap
	// were dropped.
	WarnDiagramCap WarningCode = "diagram_cap"

	// WarnUnresolvedImage indicates a named image object could not be
	// resolved to pixel data.
	WarnUnresolvedImage WarningCode = "unresolved_image"
)

// Warning describes a non-fatal issue encountered during a parse. The
// parse succeeded, but output may be incomplete in the way the warning
// describes.
type Warning struct {
	Code    WarningCode
	Message string

	// Page is the 1-based page the warning applies to, 0 for
	// document-level warnings.
	Page int
}

// String returns a human-readable form of the warning.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single display string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		parts = append(parts, w.String())
	}
	return strings.Join(parts, "; ")
}
