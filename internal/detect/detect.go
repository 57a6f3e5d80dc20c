// Package detect sniffs input to determine the report encoding.
package detect

import "bytes"

// Format represents a recognized input format.
type Format int

const (
	Unknown Format = iota
	Report         // flakiness report: JSON array of file entries
	Gzip           // gzip-compressed report
)

func (f Format) String() string {
	switch f {
	case Report:
		return "report"
	case Gzip:
		return "gzip"
	default:
		return "unknown"
	}
}

var gzipMagic = []byte{0x1f, 0x8b}

// Sniff examines the first bytes of input to determine format.
// Only the leading bytes are inspected; the document is not validated.
func Sniff(data []byte) Format {
	if bytes.HasPrefix(data, gzipMagic) {
		return Gzip
	}

	data = bytes.TrimLeft(data, " \t\r\n")
	// UTF-8 byte order mark
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}
	if data[0] == '[' {
		return Report
	}
	return Unknown
}
