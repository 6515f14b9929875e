package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "X_Tool_SRS.md", FileName("X Tool", FormatMarkdown))
	assert.Equal(t, "Ideas_2_0_SRS.txt", FileName("Ideas: 2.0", FormatText))
	assert.Equal(t, "_SRS.html", FileName("", FormatHTML))
	assert.Equal(t, "A_B_SRS.md", FileName("A -- & B", FormatMarkdown))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRenderRawFormatsKeepText(t *testing.T) {
	srs := "# SRS\n\n- item"

	md, err := Render("X Tool", srs, FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, srs, string(md.Body))
	assert.Equal(t, "text/markdown; charset=utf-8", md.ContentType)

	txt, err := Render("X Tool", srs, FormatText)
	require.NoError(t, err)
	assert.Equal(t, srs, string(txt.Body))
	assert.Equal(t, "X_Tool_SRS.txt", txt.Name)
}

func TestRenderHTML(t *testing.T) {
	file, err := Render("X <Tool>", "# Intro\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", FormatHTML)
	require.NoError(t, err)

	body := string(file.Body)
	assert.Contains(t, body, "<h1>Intro</h1>")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "<title>X &lt;Tool&gt; - SRS</title>")
	assert.Equal(t, "X_Tool__SRS.html", file.Name)
}
