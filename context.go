package schematic

import "slices"

// Recovery selects the value substituted for a failing property in collect mode.
type Recovery int

const (
	RecoverDiscard Recovery = iota // Undefined; the property is omitted from JSON.
	RecoverValue                   // keep the offending value
	RecoverNull                    // substitute null
)

// ParseRecovery maps the textual recovery names "value", "null" and
// "undefined" to a Recovery. Unknown names discard.
func ParseRecovery(s string) Recovery {
	switch s {
	case "value":
		return RecoverValue
	case "null":
		return RecoverNull
	default:
		return RecoverDiscard
	}
}

func (r Recovery) String() string {
	switch r {
	case RecoverValue:
		return "value"
	case RecoverNull:
		return "null"
	default:
		return "undefined"
	}
}

// Context carries one top-level traversal. Recovery and
// AllowHiddenPropertyAssignment configure the walk; the path stack, collected
// issues and validating flag are owned by the walk itself.
//
// A nil *Context is valid: it fails fast without tracking paths.
type Context struct {
	Recovery                      Recovery
	AllowHiddenPropertyAssignment bool

	collect    bool
	issues     Issues
	path       Path
	validating bool
}

// NewContext returns a fail-fast context that tracks paths. It is what New and
// Validate use when no context is passed.
func NewContext() *Context { return &Context{path: Path{}} }

// Collect returns an accumulating context: issues are recorded and the walk
// continues with the recovery value.
func Collect(r Recovery) *Context { return &Context{collect: true, Recovery: r, path: Path{}} }

// Collecting reports whether issues are accumulated rather than returned.
func (c *Context) Collecting() bool { return c != nil && c.collect }

// Issues returns the accumulated issues.
func (c *Context) Issues() Issues {
	if c == nil {
		return nil
	}
	return slices.Clone(c.issues)
}

// Err returns the accumulated issues as an error, or nil when there are none.
func (c *Context) Err() error {
	if c == nil || len(c.issues) == 0 {
		return nil
	}
	return c.Issues()
}

// Path returns a copy of the current location, or nil when paths are not tracked.
func (c *Context) Path() Path {
	if c == nil || c.path == nil {
		return nil
	}
	return slices.Clone(c.path)
}

func (c *Context) isValidating() bool { return c != nil && c.validating }

func (c *Context) allowHidden() bool { return c != nil && c.AllowHiddenPropertyAssignment }

func (c *Context) push(s Segment) {
	if c != nil && c.path != nil {
		c.path = append(c.path, s)
	}
}

func (c *Context) pop() {
	if c != nil && len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// report is the single sink for every failure. In collect mode it records a
// snapshot and returns the recovery value; otherwise it returns an *Error.
func (c *Context) report(it Issue) (any, error) {
	original := it.Value
	it.Path = c.Path()
	it.Value = snapshot(it.Value)
	if !c.Collecting() {
		return nil, &Error{Cause: it}
	}
	c.issues = append(c.issues, it)
	switch c.Recovery {
	case RecoverValue:
		return original, nil
	case RecoverNull:
		return nil, nil
	default:
		return Undefined, nil
	}
}

// recovered reports whether a value returned by report still equals the
// original, in which case resolution proceeds as if nothing had failed.
func (c *Context) recovered(original, got any) bool {
	switch c.Recovery {
	case RecoverValue:
		return true
	case RecoverNull:
		return original == nil
	default:
		return IsUndefined(original) && IsUndefined(got)
	}
}
