package schematic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/schematic/i18n"
)

// Error kinds, carried in Issue.Message.
const (
	KindTypeMismatch             = "type mismatch"
	KindUnregisteredType         = "unregistered type"
	KindKeyMismatch              = "key mismatch"
	KindInvalidKeyType           = "invalid key type"
	KindHiddenPropertyAssignment = "hidden property assignment"
	KindConflictingKey           = "conflicting key"
)

// Issue is a single error record.
type Issue struct {
	Path    Path    // Location; nil when path tracking is off.
	Type    string  // Expected type expression (or key type for key errors).
	Key     *string // Offending key for key-related kinds.
	Value   any     // Offending value (snapshot); Undefined when absent.
	Message string  // One of the Kind* constants.
}

// Describe renders the issue with a localized message.
func (it Issue) Describe() string {
	msg := i18n.T(it.Message, map[string]string{"type": it.Type})
	if it.Path == nil {
		return msg
	}
	return msg + " at " + it.Path.String()
}

func (it Issue) summary() string {
	if it.Path == nil {
		return it.Message
	}
	return fmt.Sprintf("%s at %s", it.Message, it.Path)
}

// Error is returned in fail-fast mode; Cause is the issue that aborted the walk.
type Error struct {
	Cause Issue
}

func (e *Error) Error() string { return e.Cause.summary() }

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Issues is a collection of accumulated issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].summary())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally. A fail-fast
// *Error is returned as a single-element Issues.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	if e, ok := AsError(err); ok {
		return Issues{e.Cause}, true
	}
	return nil, false
}
