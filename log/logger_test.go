package log

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T, filter *regexp.Regexp) (*Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	lr := logrus.New()
	lr.SetOutput(&buf)
	lr.SetLevel(logrus.DebugLevel)
	lr.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return New(lr, filter), &buf
}

func TestLoggerCategory(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedLogger(t, nil)
	l.Debugf("Tiles:addTile", "url:%q", "https://example.com")

	assert.Contains(t, buf.String(), `category="Tiles:addTile"`)
	assert.Contains(t, buf.String(), `url:\"https://example.com\"`)
}

func TestLoggerCategoryFilter(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedLogger(t, regexp.MustCompile("^Theme"))
	l.Debugf("Tiles:addTile", "skipped")
	l.Debugf("Theme:commitPendingChanges", "logged")

	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "logged")

	require.NoError(t, l.SetCategoryFilter(""))
	l.Debugf("Tiles:addTile", "now logged")
	assert.Contains(t, buf.String(), "now logged")

	assert.Error(t, l.SetCategoryFilter("("))
}

func TestLoggerLevel(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedLogger(t, nil)
	require.NoError(t, l.SetLevel("error"))
	assert.False(t, l.DebugMode())

	l.Debugf("cdp", "hidden")
	l.Errorf("cdp", "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, l.SetLevel("loud"))
}

func TestNullLogger(t *testing.T) {
	t.Parallel()

	l := NewNullLogger()
	assert.NotPanics(t, func() { l.Errorf("cdp", "discarded") })

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.Debugf("cdp", "nil logger") })
}
