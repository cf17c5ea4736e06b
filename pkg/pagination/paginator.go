// Copyright 2024-2026 Aiku AI

package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxPageSize is a conservative per-message character limit that
	// fits every supported platform.
	DefaultMaxPageSize = 2000

	// truncationMarker is appended to a line that had to be hard-truncated
	// to fit a single page.
	truncationMarker = "..."
)

type entryKind int

const (
	entryLine entryKind = iota
	entryBreak
)

// entry is one element of the Paginator's pending buffer: either a line of
// text or an explicit page break.
type entry struct {
	kind entryKind
	text string
}

// Paginator accumulates lines of text and splits them into pages whose
// content fits a per-page character budget. The buffer is kept as an ordered
// entry list and only flattened into pages by Pages, so prepending content
// and re-finalizing are both cheap and Pages is idempotent.
//
// A Paginator is not safe for concurrent use.
type Paginator struct {
	maxSize  int
	reserve  int
	truncate bool
	entries  []entry
}

// NewPaginator creates a Paginator with the given whole-page size limit.
// Pass 0 to use DefaultMaxPageSize.
func NewPaginator(maxSize int) (*Paginator, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxPageSize
	}
	p := &Paginator{maxSize: maxSize, truncate: true}
	if err := p.setReserve(0); err != nil {
		return nil, err
	}
	return p, nil
}

// setReserve reserves space in every page for fixed wrapping added by a
// factory (e.g. code fence markers). The remaining content budget must still
// fit the truncation marker.
func (p *Paginator) setReserve(reserve int) error {
	if p.maxSize-reserve <= len(truncationMarker) {
		return fmt.Errorf("%w: %d bytes with %d reserved", ErrPageSizeTooSmall, p.maxSize, reserve)
	}
	p.reserve = reserve
	return nil
}

// MaxPageSize returns the configured whole-page size limit.
func (p *Paginator) MaxPageSize() int {
	return p.maxSize
}

// budget is the number of content characters available per page.
func (p *Paginator) budget() int {
	return p.maxSize - p.reserve
}

// AddLine appends one line to the pending buffer. An empty string appends a
// blank line.
func (p *Paginator) AddLine(line string) {
	p.entries = append(p.entries, entry{kind: entryLine, text: line})
}

// PrependLine inserts one line at the front of the pending buffer. Used to
// add summary content after detail content has already been accumulated.
func (p *Paginator) PrependLine(line string) {
	p.entries = append([]entry{{kind: entryLine, text: line}}, p.entries...)
}

// AddBlock splits text on its line breaks and appends each resulting line,
// preserving blank lines.
func (p *Paginator) AddBlock(text string) {
	for _, line := range strings.Split(text, "\n") {
		p.AddLine(line)
	}
}

// AddPageBreak seals the page under construction regardless of fill level.
// Breaking an empty page still emits that empty page, which is how callers
// force a placeholder page.
func (p *Paginator) AddPageBreak() {
	p.entries = append(p.entries, entry{kind: entryBreak})
}

// PrependPageBreak inserts a page break at the front of the pending buffer.
func (p *Paginator) PrependPageBreak() {
	p.entries = append([]entry{{kind: entryBreak}}, p.entries...)
}

// EnableTruncation makes overlong single lines hard-truncate to the page
// budget with a trailing marker. This is the default.
func (p *Paginator) EnableTruncation() {
	p.truncate = true
}

// DisableTruncation lets a single overlong line overflow the nominal page
// size. The caller asserts elsewhere that this is safe, e.g. when lines are
// already pre-sized.
func (p *Paginator) DisableTruncation() {
	p.truncate = false
}

// Pages finalizes the buffer into the ordered page sequence, including the
// still-open trailing page. An empty buffer yields exactly one empty page:
// every navigator needs at least one page to display. Repeated calls without
// intervening mutation return equal sequences.
func (p *Paginator) Pages() []string {
	budget := p.budget()

	var pages []string
	var cur []string
	curLen := 0
	seal := func() {
		pages = append(pages, strings.Join(cur, "\n"))
		cur = nil
		curLen = 0
	}

	for _, e := range p.entries {
		if e.kind == entryBreak {
			seal()
			continue
		}
		line := e.text
		if len(line) > budget && p.truncate {
			line = line[:budget-len(truncationMarker)] + truncationMarker
		}
		if len(cur) > 0 && curLen+len(line) > budget {
			seal()
		}
		cur = append(cur, line)
		curLen += len(line)
	}

	if len(cur) > 0 || len(pages) == 0 {
		seal()
	}
	return pages
}
