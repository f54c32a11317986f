// Package hexdump renders received bytes into 16-byte-per-row hex dumps
// for the receive worker's log output (spec.md §4.4). Unlike encoding/hex's
// Dump, which formats one finished buffer, a Dumper carries a partial row
// across successive Feed calls so column alignment is preserved when data
// arrives split across multiple socket reads.
package hexdump

import (
	"fmt"
	"strings"
)

const bytesPerRow = 16

// Dumper accumulates bytes into 16-byte rows and renders each finished row
// as a classic offset/hex/ascii line. Not safe for concurrent use; a receive
// worker owns exactly one Dumper for the lifetime of its connection.
type Dumper struct {
	offset int
	row    [bytesPerRow]byte
	filled int
}

// New creates a Dumper starting at offset 0.
func New() *Dumper {
	return &Dumper{}
}

// Feed appends data, returning one formatted line per row completed by this
// call. A row left partially filled is carried to the next Feed (or flushed
// by Flush at connection close).
func (d *Dumper) Feed(data []byte) []string {
	var lines []string
	for _, b := range data {
		d.row[d.filled] = b
		d.filled++
		if d.filled == bytesPerRow {
			lines = append(lines, d.renderRow(d.row[:]))
			d.offset += bytesPerRow
			d.filled = 0
		}
	}
	return lines
}

// Flush renders whatever partial row remains, padding the hex columns but
// not the ascii gutter, and clears the partial row. The offset keeps
// advancing past the flushed bytes; it is not reset to 0.
func (d *Dumper) Flush() string {
	if d.filled == 0 {
		return ""
	}
	line := d.renderRow(d.row[:d.filled])
	d.offset += d.filled
	d.filled = 0
	return line
}

func (d *Dumper) renderRow(row []byte) string {
	var hexCols strings.Builder
	for i := 0; i < bytesPerRow; i++ {
		if i < len(row) {
			fmt.Fprintf(&hexCols, "%02x ", row[i])
		} else {
			hexCols.WriteString("   ")
		}
		if i == 7 {
			hexCols.WriteByte(' ')
		}
	}

	var ascii strings.Builder
	for _, b := range row {
		if b >= 0x20 && b < 0x7f {
			ascii.WriteByte(b)
		} else {
			ascii.WriteByte('.')
		}
	}

	return fmt.Sprintf("%08x  %s |%s|", d.offset, hexCols.String(), ascii.String())
}
