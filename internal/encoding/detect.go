// Package encoding normalizes uploaded spreadsheets to UTF-8. Trade sheets arrive from Excel
// installs set to Western or Arabic code pages, and sometimes as UTF-16.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8"},
	{[]byte{0xFF, 0xFE}, "UTF-16LE"},
	{[]byte{0xFE, 0xFF}, "UTF-16BE"},
}

// decoders maps the charset names reported by chardet (and our BOM table) to decoders.
// UTF-8 needs none.
var decoders = map[string]xenc.Encoding{
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-6":   charmap.ISO8859_6,
	"windows-1256": charmap.Windows1256,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Fallback is assumed when nothing else can be determined.
const Fallback = "windows-1252"

// Detect names the charset of a file starting with buf.
func Detect(buf []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(buf, b.prefix) {
			return b.charset
		}
	}

	if validUTF8Prefix(buf) {
		return "UTF-8"
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		if _, ok := decoders[result.Charset]; ok || result.Charset == "UTF-8" {
			return result.Charset
		}
	}

	return Fallback
}

// validUTF8Prefix is utf8.Valid, tolerating a rune cut off at the end of a full sniff window.
func validUTF8Prefix(buf []byte) bool {
	if len(buf) < sniffSize {
		return utf8.Valid(buf)
	}

	for cut := 0; cut < utf8.UTFMax && cut <= len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return cut == 0 || !utf8.FullRune(buf[len(buf)-cut:])
		}
	}

	return false
}

// NewUTF8Reader detects the charset of r and returns a reader producing UTF-8.
// A UTF-8 byte order mark is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset := Detect(buf)

	if charset == "UTF-8" {
		if bytes.HasPrefix(buf, boms[0].prefix) {
			_, _ = br.Discard(len(boms[0].prefix))
		}

		return br, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), nil
}
