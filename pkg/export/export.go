// Package export renders a generated SRS as a downloadable file.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatHTML     Format = "html"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type File struct {
	Name        string
	ContentType string
	Body        []byte
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	markdown        = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatText, FormatHTML:
		return f, nil
	case "":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FileName replaces every run of non-alphanumeric characters in title
// with an underscore and appends the _SRS suffix.
func FileName(title string, format Format) string {
	return nonAlphanumeric.ReplaceAllString(title, "_") + "_SRS." + string(format)
}

func Render(title, srs string, format Format) (*File, error) {
	file := &File{Name: FileName(title, format)}

	switch format {
	case FormatMarkdown:
		file.ContentType = "text/markdown; charset=utf-8"
		file.Body = []byte(srs)
	case FormatText:
		file.ContentType = "text/plain; charset=utf-8"
		file.Body = []byte(srs)
	case FormatHTML:
		var body bytes.Buffer
		if err := markdown.Convert([]byte(srs), &body); err != nil {
			return nil, fmt.Errorf("render markdown: %w", err)
		}
		file.ContentType = "text/html; charset=utf-8"
		file.Body = []byte(fmt.Sprintf(htmlTemplate, html.EscapeString(title), body.String()))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return file, nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s - SRS</title>
</head>
<body>
%s</body>
</html>
`
