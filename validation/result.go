package validation

import (
	"fmt"
	"strings"
)

// Markers prefix every check message so renderers and downstream tools can
// classify a message by substring.
const (
	MarkerPass = "✅"
	MarkerInfo = "ℹ️"
	MarkerFail = "❌"
)

// NoBlockingErrors is the blocking-errors value of an outcome without failures.
const NoBlockingErrors = "none"

// Status classifies the result of a single check.
type Status int

const (
	StatusPass Status = iota
	StatusInfo
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusInfo:
		return "info"
	case StatusFail:
		return "fail"
	default:
		return "pass"
	}
}

// Marker returns the message prefix for the status.
func (s Status) Marker() string {
	switch s {
	case StatusInfo:
		return MarkerInfo
	case StatusFail:
		return MarkerFail
	default:
		return MarkerPass
	}
}

// MarshalText encodes the status as pass, info or fail.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the verdict of one check on one record. Err carries the typed
// cause of a failing or informational result and is nil on success.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Blocking reports whether the result must prevent persistence or export.
func (r Result) Blocking() bool {
	return r.Status == StatusFail
}

func passf(format string, args ...any) Result {
	return Result{Status: StatusPass, Message: MarkerPass + " " + fmt.Sprintf(format, args...)}
}

func ok() Result {
	return Result{Status: StatusPass, Message: MarkerPass + " OK"}
}

func infof(err error, format string, args ...any) Result {
	return Result{Status: StatusInfo, Message: MarkerInfo + " " + fmt.Sprintf(format, args...), Err: err}
}

func failf(err error, format string, args ...any) Result {
	return Result{Status: StatusFail, Message: MarkerFail + " " + fmt.Sprintf(format, args...), Err: err}
}

// IsFailureMessage reports whether a rendered message carries the failure marker.
func IsFailureMessage(msg string) bool {
	return strings.Contains(msg, MarkerFail)
}
