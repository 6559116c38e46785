package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tagtally/pkg/config"
	"tagtally/pkg/tally"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := output
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(prev)
		SetQuietMode(false)
	})
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintInfo("Hashtag", "golang")
	PrintSuccess("Report written")
	PrintWarning("Poll failed", "timeout")
	PrintError("Run aborted", "boom")

	out := buf.String()
	assert.Contains(t, out, "Hashtag")
	assert.Contains(t, out, "golang")
	assert.Contains(t, out, "Report written")
	assert.Contains(t, out, "Poll failed: timeout")
	assert.Contains(t, out, "Run aborted: boom")
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := captureOutput(t)
	SetQuietMode(true)
	require.True(t, IsQuiet())

	PrintLogo()
	PrintInfo("Hashtag", "golang")
	PrintHighlight("[POLLING]")
	PrintResults(tally.FromMentions([]string{"alice"}))
	assert.Empty(t, buf.String())

	PrintError("Failed")
	assert.Contains(t, buf.String(), "Failed")
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, tally.FromMentions([]string{"alice", "bob", "alice"}))

	out := buf.String()
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "TOTAL")
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
}

func TestRenderConfig(t *testing.T) {
	var buf bytes.Buffer
	RenderConfig(&buf, config.DefaultConfig())

	out := buf.String()
	assert.Contains(t, out, "p.tweet-text")
	assert.Contains(t, out, "output.csv")
	assert.Contains(t, out, "15s")
	assert.Contains(t, out, "(stderr only)")
}

func TestPollProgressBar(t *testing.T) {
	p := NewPollProgress(&bytes.Buffer{}, 60*time.Second)

	assert.Equal(t, "["+strings.Repeat(ProgressEmpty, 20)+"] 0s/1m0s", p.Bar(0))
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 5)+strings.Repeat(ProgressEmpty, 15)+"] 15s/1m0s", p.Bar(15*time.Second))
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 20)+"] 1m15s/1m0s", p.Bar(75*time.Second))
}

func TestPollProgressUpdate(t *testing.T) {
	var buf bytes.Buffer
	p := NewPollProgress(&buf, 30*time.Second)

	p.Update(2, 15*time.Second, 7, 0)
	assert.True(t, strings.HasPrefix(buf.String(), "\r["))
	assert.Contains(t, buf.String(), "poll 2  mentions 7")
	assert.NotContains(t, buf.String(), "failed")

	p.Update(3, 30*time.Second, 7, 1)
	assert.Contains(t, buf.String(), "failed 1")

	p.Done()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
