// Package diag defines the fixed error taxonomy from spec §7. Every fatal
// condition the compiler can hit is one of these kinds; nothing is demoted
// to a warning and nothing is silently recovered except the one case §7
// names explicitly (extra object-literal fields on a typed SpawnAgent input).
package diag

import (
	"fmt"

	"github.com/reactagentic/compiler/internal/logger"
)

type Kind string

const (
	ParseError         Kind = "ParseError"
	UnknownComponent   Kind = "UnknownComponent"
	MissingRequiredProp Kind = "MissingRequiredProp"
	InvalidChild       Kind = "InvalidChild"
	InterfaceMismatch  Kind = "InterfaceMismatch"
	UnknownField       Kind = "UnknownField"
	NamespaceConflict  Kind = "NamespaceConflict"
	IoError            Kind = "IoError"
	ConfigError        Kind = "ConfigError"

	// DuplicateSkillPath makes §3.3 invariant 7 (unique skill output paths)
	// observable as an error instead of a silent overwrite; see
	// SPEC_FULL.md §C.3.
	DuplicateSkillPath Kind = "DuplicateSkillPath"
)

// Error is the representation used internally for a single fatal
// condition. Secondary carries cross-file locations (e.g. an agent
// interface's definition site for InterfaceMismatch).
type Error struct {
	Kind      Kind
	Message   string
	Primary   *logger.MsgLocation
	Secondary []SecondaryLocation
}

type SecondaryLocation struct {
	Label    string
	Location *logger.MsgLocation
}

func (e *Error) Error() string {
	if e.Primary == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Primary.File, e.Primary.Line, e.Primary.Column, e.Kind, e.Message)
}

// Report appends e to log as an Error message (plus Note messages for any
// secondary locations), matching spec §6.4's "Agent interface defined at:
// <file>:<line>:<col>" convention.
func (e *Error) Report(log *logger.Log) {
	notes := make([]logger.MsgData, 0, len(e.Secondary))
	for _, sec := range e.Secondary {
		notes = append(notes, logger.MsgData{
			Text:     fmt.Sprintf("%s %s:%d:%d", sec.Label, sec.Location.File, sec.Location.Line, sec.Location.Column),
			Location: sec.Location,
		})
	}
	log.AddErrorWithNotes(e.Primary, e.Message, notes...)
}

func New(kind Kind, loc *logger.MsgLocation, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Primary: loc}
}

func WithSecondary(kind Kind, loc *logger.MsgLocation, label string, secondary *logger.MsgLocation, format string, args ...interface{}) *Error {
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Primary:   loc,
		Secondary: []SecondaryLocation{{Label: label, Location: secondary}},
	}
}
