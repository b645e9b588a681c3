// Package logger owns every diagnostic the compiler produces. No other
// package formats an error message directly: parsing, resolution,
// transformation and emission all call into a Log to report problems, and
// the Log decides how (and whether) to print them.
package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Loc is a 0-based byte offset from the start of a source file.
type Loc struct {
	Start int32
}

// Range is a span starting at Loc with a byte length.
type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 { return r.Loc.Start + r.Len }

// Source is a single input file's contents plus the path used in
// diagnostics (never a raw filesystem path with OS-specific separators).
type Source struct {
	Contents   string
	PrettyPath string
}

// MsgLocation is a fully-resolved, printable location: line/column have
// already been computed from a byte offset against a particular Source.
type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int
	LineText string
}

// LocationIn resolves r against source into a printable MsgLocation.
func LocationIn(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	line, col, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   col,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

func computeLineAndColumn(contents string, offset int) (line int, col int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}
	if offset < 0 {
		offset = 0
	}
	for i := 0; i < offset; i++ {
		if contents[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd = len(contents)
	for i := offset; i < len(contents); i++ {
		if contents[i] == '\n' {
			lineEnd = i
			break
		}
	}
	col = offset - lineStart
	return
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

func (k MsgKind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		panic("internal error: unknown message kind")
	}
}

type MsgData struct {
	Text     string
	Location *MsgLocation
}

type Msg struct {
	Kind  MsgKind
	Data  MsgData
	Notes []MsgData
}

// String renders msg per spec §6.4:
//
//	<file>:<line>:<col> - error: <message>
//	<blank line>
//	 NNN | <source line>
//	     | <caret>
func (msg Msg) String() string {
	var b strings.Builder
	loc := msg.Data.Location
	if loc == nil {
		fmt.Fprintf(&b, "%s: %s\n", msg.Kind.String(), msg.Data.Text)
	} else {
		fmt.Fprintf(&b, "%s:%d:%d - %s: %s\n\n", loc.File, loc.Line, loc.Column, msg.Kind.String(), msg.Data.Text)
		b.WriteString(renderSnippet(loc))
		b.WriteString("\n")
	}
	for _, note := range msg.Notes {
		if note.Location != nil {
			fmt.Fprintf(&b, "%s:%d:%d - note: %s\n", note.Location.File, note.Location.Line, note.Location.Column, note.Text)
		} else {
			fmt.Fprintf(&b, "note: %s\n", note.Text)
		}
	}
	return b.String()
}

func renderSnippet(loc *MsgLocation) string {
	gutter := fmt.Sprintf("%d", loc.Line)
	pad := strings.Repeat(" ", len(gutter))
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s\n", gutter, loc.LineText)
	col := loc.Column
	if col > len(loc.LineText) {
		col = len(loc.LineText)
	}
	length := loc.Length
	if length < 1 {
		length = 1
	}
	if col+length > len(loc.LineText) {
		length = len(loc.LineText) - col
		if length < 1 {
			length = 1
		}
	}
	caret := strings.Repeat(" ", col) + strings.Repeat("^", length)
	fmt.Fprintf(&b, "%s | %s\n", pad, caret)
	return b.String()
}

// Log aggregates diagnostics for a single file's compilation (or a whole
// build's cross-file errors, such as NamespaceConflict). It is safe for
// concurrent use since the build driver processes documents in parallel.
type Log struct {
	mu       sync.Mutex
	msgs     []Msg
	hasError bool
}

func NewLog() *Log { return &Log{} }

func (l *Log) AddError(loc *MsgLocation, text string) {
	l.add(Msg{Kind: Error, Data: MsgData{Text: text, Location: loc}})
}

func (l *Log) AddErrorWithNotes(loc *MsgLocation, text string, notes ...MsgData) {
	l.add(Msg{Kind: Error, Data: MsgData{Text: text, Location: loc}, Notes: notes})
}

func (l *Log) AddWarning(loc *MsgLocation, text string) {
	l.add(Msg{Kind: Warning, Data: MsgData{Text: text, Location: loc}})
}

func (l *Log) add(msg Msg) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msg.Kind == Error {
		l.hasError = true
	}
	l.msgs = append(l.msgs, msg)
}

func (l *Log) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasError
}

// Done returns every recorded message, sorted by file then line then
// column so a multi-file build reports deterministically.
func (l *Log) Done() []Msg {
	l.mu.Lock()
	defer l.mu.Unlock()
	msgs := make([]Msg, len(l.msgs))
	copy(msgs, l.msgs)
	sort.SliceStable(msgs, func(i, j int) bool {
		ai, aj := msgs[i].Data.Location, msgs[j].Data.Location
		if ai == nil || aj == nil {
			return aj != nil
		}
		if ai.File != aj.File {
			return ai.File < aj.File
		}
		if ai.Line != aj.Line {
			return ai.Line < aj.Line
		}
		return ai.Column < aj.Column
	})
	return msgs
}
