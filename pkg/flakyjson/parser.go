package flakyjson

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

// Parse decodes a report document from r.
// A null document yields no entries.
func Parse(r io.Reader) ([]RawEntry, error) {
	var entries []RawEntry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decoding report: empty input")
		}
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return entries, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) ([]RawEntry, error) {
	return Parse(bytes.NewReader(data))
}

// ParseGzip decodes a gzip-compressed report document.
func ParseGzip(r io.Reader) ([]RawEntry, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer zr.Close()
	return Parse(zr)
}

// CountTests returns the number of run records across all entries.
func CountTests(entries []RawEntry) (specs, tests int) {
	for _, e := range entries {
		specs += len(e.Specs)
		for _, s := range e.Specs {
			tests += len(s.Tests)
		}
	}
	return specs, tests
}
