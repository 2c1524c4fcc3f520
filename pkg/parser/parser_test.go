package parser_test

import (
	"testing"
	"time"

	"github.com/logarc/logarc/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCombinedLine(t *testing.T) {
	p := parser.New("www")
	line := `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET /index.html HTTP/1.1" 200 512 "-" "Mozilla/5.0"`

	rec, failure := p.Parse(line)
	require.Nil(t, failure)
	require.NotNil(t, rec)

	assert.Equal(t, "127.0.0.1", rec.RemoteHost)
	assert.Equal(t, "GET", rec.Method)
	assert.Equal(t, "/index.html", rec.Path)
	assert.Equal(t, "HTTP/1.1", rec.Protocol)
	assert.Equal(t, 200, rec.Status)
	require.NotNil(t, rec.Size)
	assert.Equal(t, int64(512), *rec.Size)
	assert.Nil(t, rec.Referer)
	require.NotNil(t, rec.UserAgent)
	assert.Equal(t, "Mozilla/5.0", *rec.UserAgent)
	assert.Equal(t, "www", rec.Source)

	expected := time.Date(2024, 6, 10, 13, 55, 36, 0, time.FixedZone("", 8*3600))
	assert.True(t, rec.Timestamp.Equal(expected))
}

func TestParseKeepsOffset(t *testing.T) {
	p := parser.New("www")
	line := `10.0.0.1 - - [10/Jun/2024:23:59:59 +0800] "GET / HTTP/1.1" 200 1 "-" "-"`

	rec, failure := p.Parse(line)
	require.Nil(t, failure)

	// 23:59+08:00 is the previous day in UTC but the record belongs to
	// its wall-clock date.
	assert.Equal(t, "2024-06-10", rec.Date())
	assert.Equal(t, "2024-06-10T23:59:59+08:00", rec.Timestamp.Format(time.RFC3339))
}

func TestParseCommonLine(t *testing.T) {
	p := parser.New("www")
	line := `127.0.0.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326`

	rec, failure := p.Parse(line)
	require.Nil(t, failure)

	assert.Equal(t, "GET", rec.Method)
	assert.Equal(t, "/apache_pb.gif", rec.Path)
	assert.Equal(t, 200, rec.Status)
	require.NotNil(t, rec.Size)
	assert.Equal(t, int64(2326), *rec.Size)
	assert.Nil(t, rec.Referer)
	assert.Nil(t, rec.UserAgent)
}

func TestParseDashSize(t *testing.T) {
	p := parser.New("www")
	line := `192.168.0.5 - - [10/Jun/2024:08:15:00 +0000] "HEAD /health HTTP/1.1" 204 - "-" "kube-probe/1.29"`

	rec, failure := p.Parse(line)
	require.Nil(t, failure)
	assert.Nil(t, rec.Size)
	assert.Equal(t, 204, rec.Status)
}

func TestParseQuotedValues(t *testing.T) {
	p := parser.New("www")

	t.Run("space in path", func(tt *testing.T) {
		line := `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET /some file.html HTTP/1.0" 200 12 "-" "-"`
		rec, failure := p.Parse(line)
		require.Nil(tt, failure)
		assert.Equal(tt, "/some file.html", rec.Path)
		assert.Equal(tt, "HTTP/1.0", rec.Protocol)
	})

	t.Run("escaped quote in user agent", func(tt *testing.T) {
		line := `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET / HTTP/1.1" 200 12 "-" "agent \"beta\" build"`
		rec, failure := p.Parse(line)
		require.Nil(tt, failure)
		require.NotNil(tt, rec.UserAgent)
		assert.Equal(tt, `agent "beta" build`, *rec.UserAgent)
	})

	t.Run("referer kept", func(tt *testing.T) {
		line := `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET /a HTTP/1.1" 200 12 "https://example.com/start page" "-"`
		rec, failure := p.Parse(line)
		require.Nil(tt, failure)
		require.NotNil(tt, rec.Referer)
		assert.Equal(tt, "https://example.com/start page", *rec.Referer)
	})
}

func TestParseFailures(t *testing.T) {
	p := parser.New("www")

	cases := []struct {
		title  string
		line   string
		reason string
	}{
		{
			title:  "truncated line",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET / HTTP/1.1"`,
			reason: parser.ReasonFieldCount,
		},
		{
			title:  "garbage",
			line:   `hello world`,
			reason: parser.ReasonFieldCount,
		},
		{
			title:  "unterminated quote",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET / HTTP/1.1 200 12`,
			reason: parser.ReasonBadQuote,
		},
		{
			title:  "unterminated bracket",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800 "GET / HTTP/1.1" 200 12 "-" "-"`,
			reason: parser.ReasonBadBracket,
		},
		{
			title:  "bad timestamp",
			line:   `127.0.0.1 - - [sometime] "GET / HTTP/1.1" 200 12 "-" "-"`,
			reason: parser.ReasonBadTimestamp,
		},
		{
			title:  "bad status",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET / HTTP/1.1" 2xx 12 "-" "-"`,
			reason: parser.ReasonBadStatus,
		},
		{
			title:  "bad size",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "GET / HTTP/1.1" 200 12a "-" "-"`,
			reason: parser.ReasonBadSize,
		},
		{
			title:  "missing request line",
			line:   `127.0.0.1 - - [10/Jun/2024:13:55:36 +0800] "-" 408 - "-" "-"`,
			reason: parser.ReasonBadRequest,
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(tt *testing.T) {
			rec, failure := p.Parse(c.line)
			assert.Nil(tt, rec)
			require.NotNil(tt, failure)
			assert.Equal(tt, c.reason, failure.Reason)
			assert.Equal(tt, c.line, failure.Line)
		})
	}
}

func TestParseBlankLine(t *testing.T) {
	p := parser.New("www")

	for _, line := range []string{"", "   ", "\t"} {
		rec, failure := p.Parse(line)
		assert.Nil(t, rec)
		assert.Nil(t, failure)
	}
}
