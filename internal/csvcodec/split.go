package csvcodec

import "strings"

// Record is one logical CSV row. Line is the 1-based physical line the
// record starts on; a quoted field may carry the record over several lines.
type Record struct {
	Line int
	Text string
}

// Records splits text into records. CRLF and lone CR are treated as LF.
// A quote opens a quoted span only at the start of a field; a newline inside
// the span belongs to the field, not the record break. A quote elsewhere is
// left for SplitLine to judge. If a span is still open at the end of the
// text, the lines from its record on are returned one record each.
func Records(text string) []Record {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var records []Record
	line, start, startLine := 1, 0, 1
	inQuotes, fieldStart := false, true
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				i++
			case c == '"':
				inQuotes = false
			case c == '\n':
				line++
			}
			continue
		}
		switch c {
		case '"':
			inQuotes = fieldStart
			fieldStart = false
		case ',':
			fieldStart = true
		case ' ', '\t':
		case '\n':
			line++
			records = append(records, Record{Line: startLine, Text: text[start:i]})
			start, startLine, fieldStart = i+1, line, true
		default:
			fieldStart = false
		}
	}
	if inQuotes {
		for i, l := range strings.Split(strings.TrimSuffix(text[start:], "\n"), "\n") {
			records = append(records, Record{Line: startLine + i, Text: l})
		}
		return records
	}
	if start < len(text) {
		records = append(records, Record{Line: startLine, Text: text[start:]})
	}
	return records
}

// SplitLine splits one record into fields. Inside a quoted span a comma is
// literal and "" is an escaped quote; outside, a comma ends the field. Quote
// characters themselves are dropped. Fields are not trimmed.
func SplitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
