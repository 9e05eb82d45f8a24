package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// annotatedError includes more context than a plain error that is useful for troubleshooting.
type annotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// wrapped is the cause, nil for errors created with New.
	wrapped error
}

func callerPC() uintptr {
	var pcs [1]uintptr
	// Skip runtime.Callers, callerPC and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return pcs[0]
}

// New creates a new error with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:     msg,
		pc:      callerPC(),
		attrs:   attrs,
		wrapped: nil,
	}
}

// Wrap annotates err with a message describing what was attempted and optional attributes.
//
// Returns nil if err is nil so that it can be used in return statements directly.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{
		msg:     msg,
		pc:      callerPC(),
		attrs:   attrs,
		wrapped: err,
	}
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be detected
// with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Error implements error interface.
func (err *annotatedError) Error() string {
	if err.wrapped == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.wrapped.Error())
}

func (err *annotatedError) Unwrap() error {
	return err.wrapped
}

func (err *annotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{err.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
func (err *annotatedError) LogValue() slog.Value {
	attrs := append([]slog.Attr{
		slog.String("msg", err.msg),
		slog.String("source", err.source()),
	}, err.attrs...)
	return slog.GroupValue(attrs...)
}

// SlogError returns a slog attribute that contains the error message and the attributes and source locations
// collected from the whole chain of annotated errors.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		attrs   = []slog.Attr{slog.String("msg", err.Error())}
		sources []string
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		var annotated *annotatedError
		if !errors.As(e, &annotated) {
			break
		}
		sources = append(sources, annotated.source())
		attrs = append(attrs, annotated.attrs...)
		e = annotated
	}
	if len(sources) > 0 {
		attrs = append(attrs, slog.Any("trace", sources))
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(attrs...)}
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
