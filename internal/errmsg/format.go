// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by command.
const (
	// Tag reading
	OpPrint Op = "print tags"

	// Tag editing
	OpSet         Op = "set tags"
	OpClean       Op = "clean tags"
	OpCopy        Op = "copy tags"
	OpInteractive Op = "edit tags"

	// File operations
	OpRename Op = "rename files"
	OpDump   Op = "dump tags"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpParseArgs  Op = "parse arguments"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
