package project

import (
	"fmt"
	"strings"
)

// HexDump renders data as a 16-byte-per-line hex and ASCII listing. The
// command prints it for the dump-file option; record decoding does not
// call it.
func HexDump(data []byte) string {
	var b strings.Builder
	for lineOffset := 0; lineOffset < len(data); lineOffset += 16 {
		end := lineOffset + 16
		if end > len(data) {
			end = len(data)
		}

		var hexPart, asciiPart strings.Builder
		for _, c := range data[lineOffset:end] {
			fmt.Fprintf(&hexPart, "%02X ", c)
			if c >= 0x21 && c <= 0x7E {
				asciiPart.WriteByte(c)
			} else {
				asciiPart.WriteByte('.')
			}
		}
		fmt.Fprintf(&b, "0x%08X | %-48s| %-16s |\n", lineOffset, hexPart.String(), asciiPart.String())
	}
	return b.String()
}
