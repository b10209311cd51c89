package musclememo

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/claude/musclememo/internal/ingest"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText turns raw file bytes into text. UTF-8 is expected; a leading
// byte order mark is stripped, and a UTF-16 BOM switches the decoding.
func DecodeText(data []byte) (string, error) {
	utf16 := bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
	if !utf16 && !utf8.Valid(data) {
		return "", ingest.ParseError("content is not valid UTF-8 text")
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", ingest.ParseError("decoding text: %v", err)
	}
	return string(out), nil
}
