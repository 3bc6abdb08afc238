package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpTextListsCommands(t *testing.T) {
	text := HelpText()

	lines := sectionLines(text, "Commands:")
	require.Len(t, lines, len(commandOrder))
	assert.Equal(t, "\tbreaktime help            Show this help message", lines[0])
	assert.Equal(t, "\tbreaktime pause [options] Pause breaks", lines[3])
	assert.Equal(t, "\tbreaktime long [options]  Skips to and customize next Long Break", lines[7])
}

func TestHelpTextListsOptions(t *testing.T) {
	lines := sectionLines(HelpText(), "Options:")
	require.Len(t, lines, len(allOptions))
	assert.Equal(t, "\t-T, --title    Specify title for next break (Long or Mini)", lines[0])
	assert.Equal(t, "\t-n, --noskip   Do not skip directly to this break (Long or Mini)", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "\t-d, --duration Specify duration"))
}

func TestHelpTextListsExamples(t *testing.T) {
	lines := sectionLines(HelpText(), "Examples:")
	require.Len(t, lines, len(allExamples))

	width := 0
	for _, example := range allExamples {
		width = max(width, len(example.Cmd))
	}
	for i, line := range lines {
		assert.True(t, strings.HasPrefix(line, "\t"+allExamples[i].Cmd), line)
		assert.Equal(t, allExamples[i].Description, line[1+width+1:])
	}
}

func TestHelpTextIsDeterministic(t *testing.T) {
	assert.Equal(t, HelpText(), HelpText())
}

// sectionLines returns the tab-indented lines following header.
func sectionLines(text, header string) []string {
	var lines []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case line == header:
			inSection = true
		case inSection && strings.HasPrefix(line, "\t"):
			lines = append(lines, line)
		case inSection:
			return lines
		}
	}
	return lines
}

func TestHelpTextShowsLaunchCommand(t *testing.T) {
	lines := sectionLines(HelpText(), "Examples:")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "\tbreaktime resume "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "Start BreakTime in the system tray, or resume breaks"))
}
