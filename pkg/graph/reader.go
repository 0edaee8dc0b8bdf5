package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineLength bounds a single edge-list line
const maxLineLength = 1 << 20

// ReadEdgeList parses a whitespace separated edge list ("a b [weight]") into a Graph.
// Blank lines and lines starting with '#' are skipped; a missing weight means 1.
func ReadEdgeList(r io.Reader, source string, policy DuplicatePolicy) (*Graph, error) {
	b := NewBuilder(policy)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, &ParseError{Source: source, Line: lineNo, Cause: fmt.Errorf("%w: expected 2 or 3 fields, got %d", ErrMalformedLine, len(fields))}
		}

		weight := 1.0
		if len(fields) == 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, &ParseError{Source: source, Line: lineNo, Cause: fmt.Errorf("%w: %v", ErrMalformedLine, err)}
			}
			weight = w
		}

		if err := b.AddEdge(fields[0], fields[1], weight); err != nil {
			return nil, &ParseError{Source: source, Line: lineNo, Cause: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	return b.Build(), nil
}
