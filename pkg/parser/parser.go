package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/logarc/logarc/pkg/models"
)

// Reasons of ParseFailure. The vocabulary is fixed so that report
// consumers can group failures.
const (
	ReasonFieldCount   = "field count mismatch"
	ReasonBadQuote     = "unterminated quoted field"
	ReasonBadBracket   = "unterminated bracket field"
	ReasonBadRequest   = "malformed request field"
	ReasonBadTimestamp = "unparseable timestamp"
	ReasonBadStatus    = "unparseable status code"
	ReasonBadSize      = "unparseable response size"
)

// timeLayout is the time format inside brackets: 10/Jun/2024:13:55:36 +0800
const timeLayout = "02/Jan/2006:15:04:05 -0700"

const (
	numFieldsCommon   = 7
	numFieldsCombined = 9
)

// Parser converts NCSA common/combined format lines of one source into
// LogRecord values.
type Parser struct {
	source string
}

// New is constructor of Parser. source is stamped into every record.
func New(source string) *Parser {
	return &Parser{source: source}
}

// Source returns the source identifier of the parser.
func (x *Parser) Source() string { return x.source }

// Parse converts one line. Exactly one of record and failure is non-nil,
// except blank lines that return nil for both (trailing newline artifacts
// are not worth a failure count).
func (x *Parser) Parse(line string) (*models.LogRecord, *models.ParseFailure) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	fields, reason := splitFields(line)
	if reason != "" {
		return nil, &models.ParseFailure{Line: line, Reason: reason}
	}

	// common:   host ident authuser [time] "request" status size
	// combined: common + "referer" "user-agent"
	if len(fields) != numFieldsCommon && len(fields) != numFieldsCombined {
		return nil, &models.ParseFailure{Line: line, Reason: ReasonFieldCount}
	}

	ts, err := time.Parse(timeLayout, fields[3])
	if err != nil {
		return nil, &models.ParseFailure{Line: line, Reason: ReasonBadTimestamp}
	}

	method, path, protocol, ok := splitRequest(fields[4])
	if !ok {
		return nil, &models.ParseFailure{Line: line, Reason: ReasonBadRequest}
	}

	status, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, &models.ParseFailure{Line: line, Reason: ReasonBadStatus}
	}

	rec := &models.LogRecord{
		RemoteHost: fields[0],
		Timestamp:  ts,
		Method:     method,
		Path:       path,
		Protocol:   protocol,
		Status:     status,
		Source:     x.source,
	}

	// "-" means the response had no body. It becomes null, not zero:
	// zero is a valid size of an empty body.
	if fields[6] != "-" {
		size, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			return nil, &models.ParseFailure{Line: line, Reason: ReasonBadSize}
		}
		rec.Size = &size
	}

	if len(fields) == numFieldsCombined {
		if fields[7] != "-" {
			referer := fields[7]
			rec.Referer = &referer
		}
		if fields[8] != "-" {
			ua := fields[8]
			rec.UserAgent = &ua
		}
	}

	return rec, nil
}

// splitFields splits a line into fields. Spaces inside "..." and [...]
// do not break fields; the quotes and brackets bound the field and are
// not part of the value. Backslash escapes are honored inside quotes.
func splitFields(line string) ([]string, string) {
	var fields []string
	i, n := 0, len(line)

	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		switch line[i] {
		case '"':
			var sb strings.Builder
			i++
			closed := false
			for i < n {
				c := line[i]
				if c == '\\' && i+1 < n {
					sb.WriteByte(line[i+1])
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				sb.WriteByte(c)
				i++
			}
			if !closed {
				return nil, ReasonBadQuote
			}
			fields = append(fields, sb.String())

		case '[':
			end := strings.IndexByte(line[i:], ']')
			if end < 0 {
				return nil, ReasonBadBracket
			}
			fields = append(fields, line[i+1:i+end])
			i += end + 1

		default:
			start := i
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			fields = append(fields, line[start:i])
		}
	}

	return fields, ""
}

// splitRequest breaks `GET /path HTTP/1.1` into parts. Unescaped spaces
// inside the path fold back into it.
func splitRequest(request string) (method, path, protocol string, ok bool) {
	parts := strings.Fields(request)
	if len(parts) < 3 {
		return "", "", "", false
	}

	return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1], true
}
