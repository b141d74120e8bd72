// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders batch progress and results: a line-oriented
// progress surface during a run, and a table or JSON document afterwards.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Level tags a progress line.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Reporter receives a headline followed by status lines, in order.
type Reporter interface {
	Headline(text string)
	Line(level Level, text string)
}

// Writer prints progress to an io.Writer, one line per call.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Reporter that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Headline prints text underlined.
func (p *Writer) Headline(text string) {
	fmt.Fprintf(p.w, "%s\n%s\n", text, strings.Repeat("=", utf8.RuneCountInString(text)))
}

// Line prints text as-is; the level is carried by the line's own symbol.
func (p *Writer) Line(_ Level, text string) {
	fmt.Fprintln(p.w, text)
}

// Entry is one recorded progress line.
type Entry struct {
	Level Level
	Text  string
}

// Recorder keeps progress in memory.
type Recorder struct {
	mu       sync.Mutex
	headline string
	entries  []Entry
}

func (r *Recorder) Headline(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headline = text
}

func (r *Recorder) Line(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Text: text})
}

// HeadlineText returns the last headline received.
func (r *Recorder) HeadlineText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.headline
}

// Entries returns a copy of the recorded lines.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Texts returns the recorded line texts.
func (r *Recorder) Texts() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}
