package status

import (
	"fmt"
)

// Emoji used in status messages
const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
	EmojiError    = "❌"
)

// MsgProgress is the progress template: emoji, current, total, percent
const MsgProgress = "%s Progress: %d/%d (%.0f%%)"

// FileFormatter defines how file outcomes and progress are formatted
type FileFormatter interface {
	// FormatFileOperation formats a file outcome
	FormatFileOperation(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	switch info.Status {
	case StatusRenamed:
		return fmt.Sprintf("🔖 Renamed %s -> %s", info.Path, info.Detail)
	case StatusRewritten:
		return fmt.Sprintf("📝 Rewrote %s", info.Path)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", info.Path)
	case StatusBinary:
		return fmt.Sprintf("📦 Binary %s", info.Path)
	case StatusUnchanged:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	default:
		return fmt.Sprintf("❔ Unknown %s", info.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	if total > 0 {
		percentage = float64(current) / float64(total) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	emoji := EmojiProgress
	if current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s Error: %v", EmojiError, err)
}
