package command

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"breaktime/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMorning time.Duration

func (morning fixedMorning) UntilMorning() time.Duration {
	return time.Duration(morning)
}

func parse(input ...string) *Command {
	return New(input, "1.2.3", WithLogger(logging.NewNop()))
}

func TestParseSimpleCommand(t *testing.T) {
	cmd := parse("help")
	assert.Equal(t, "help", cmd.Name)
	assert.NoError(t, cmd.Err())
}

func TestParseDefaultsToHelp(t *testing.T) {
	cmd := parse()
	assert.Equal(t, "help", cmd.Name)
	assert.Nil(t, cmd.Options)
}

func TestParseComplexCommand(t *testing.T) {
	cmd := parse("pause", "-d", "until-morning")
	assert.Equal(t, "pause", cmd.Name)
	value, ok := cmd.Options.Value("duration")
	require.True(t, ok)
	assert.Equal(t, "until-morning", value)
}

func TestParseDropsHostFlags(t *testing.T) {
	cmd := parse("--some-electron-flag=value", "mini", "-T", "test", "--noskip")
	assert.Equal(t, "mini", cmd.Name)
	assert.Equal(t, []string{"--some-electron-flag=value"}, cmd.HostFlags())

	title, ok := cmd.Options.Value("title")
	require.True(t, ok)
	assert.Equal(t, "test", title)
	assert.True(t, cmd.Options.Flag("noskip"))
}

func TestHostFlagsStopAtFirstPositional(t *testing.T) {
	input := []string{"--a", "--b=1", "pause", "--duration", "5"}
	assert.Equal(t, []string{"--a", "--b=1"}, HostFlags(input))
	assert.Empty(t, HostFlags([]string{"pause", "--x"}))
	assert.Empty(t, HostFlags(nil))

	cmd := parse("--a", "--b=1")
	assert.Equal(t, "help", cmd.Name)
}

func TestParseUnsupportedCommand(t *testing.T) {
	cmd := parse("dance", "-T", "x")
	assert.Empty(t, cmd.Name)
	assert.ErrorIs(t, cmd.Err(), ErrUnsupportedCommand)
	assert.Contains(t, cmd.Err().Error(), "dance")
	assert.Nil(t, cmd.Options)
	assert.False(t, cmd.CheckInMain())

	var out bytes.Buffer
	assert.False(t, cmd.RunOrForward(&out))
	assert.Empty(t, out.String())
}

func TestGetOpts(t *testing.T) {
	cmd := parse("mini")
	options := cmd.GetOpts([]string{"-T", "test", "-n"})
	title, _ := options.Value("title")
	assert.Equal(t, "test", title)
	assert.True(t, options.Flag("noskip"))
}

func TestGetOptsWithoutDeclaredOptions(t *testing.T) {
	cmd := parse("resume", "--title", "x")
	assert.Nil(t, cmd.Options)
	assert.Nil(t, cmd.GetOpts([]string{"-T", "x"}))
}

func TestGetOptsSkipsUnknownOptions(t *testing.T) {
	cmd := parse("long", "-x", "-T", "Stretch up !", "--duration", "-t", "Go stretch !")

	title, _ := cmd.Options.Value("title")
	text, _ := cmd.Options.Value("text")
	assert.Equal(t, "Stretch up !", title)
	assert.Equal(t, "Go stretch !", text)
	assert.False(t, cmd.Options.Flag("noskip"))

	errs := cmd.OptionErrors()
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnsupportedOption)
	}
	assert.Contains(t, errs[0].Error(), "-x")
	assert.Contains(t, errs[0].Error(), "long")
	assert.Contains(t, errs[1].Error(), "--duration")
}

func TestGetOptsValueConsumesNextToken(t *testing.T) {
	cmd := parse("mini", "-T", "-n")
	title, _ := cmd.Options.Value("title")
	assert.Equal(t, "-n", title)
	assert.False(t, cmd.Options.Flag("noskip"))
	assert.Empty(t, cmd.OptionErrors())
}

func TestGetOptsMissingValue(t *testing.T) {
	cmd := parse("mini", "-n", "--title")
	assert.True(t, cmd.Options.Flag("noskip"))
	_, ok := cmd.Options.Value("title")
	assert.False(t, ok)

	errs := cmd.OptionErrors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingValue)
}

func TestGetOptsLastValueWins(t *testing.T) {
	cmd := parse("mini", "-T", "first", "--title", "second")
	title, _ := cmd.Options.Value("title")
	assert.Equal(t, "second", title)
}

func TestDurationToMs(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  int64
	}{
		{name: "no duration", input: []string{"pause"}, want: NoDelay},
		{name: "indefinitely", input: []string{"pause", "-d", "indefinitely"}, want: NoDelay},
		{name: "minutes", input: []string{"pause", "-d", "60m"}, want: 3600000},
		{name: "bare minutes", input: []string{"pause", "--duration", "60"}, want: 3600000},
		{name: "hours and minutes", input: []string{"pause", "-d", "1h20m"}, want: 4800000},
		{name: "invalid", input: []string{"pause", "-d", "10i20k"}, want: InvalidDuration},
		{name: "until morning", input: []string{"pause", "-d", "until-morning"}, want: 90 * 60000},
		{name: "command without options", input: []string{"resume"}, want: NoDelay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parse(tt.input...)
			assert.Equal(t, tt.want, cmd.DurationToMs(fixedMorning(90*time.Minute)))
		})
	}
}

func TestDurationToMsWithoutMorningClock(t *testing.T) {
	cmd := parse("pause", "-d", "60m")
	assert.Equal(t, int64(3600000), cmd.DurationToMs(nil))

	cmd = parse("pause", "-d", "until-morning")
	assert.Equal(t, InvalidDuration, cmd.DurationToMs(nil))
}

func TestCheckInMain(t *testing.T) {
	for _, name := range Names() {
		cmd := parse(name)
		want := name != "help" && name != "version"
		assert.Equal(t, want, cmd.CheckInMain(), name)
	}
}

func TestRunOrForward(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, parse("version").RunOrForward(&out))
	assert.Equal(t, "BreakTime version 1.2.3\n", out.String())

	out.Reset()
	assert.False(t, parse().RunOrForward(&out))
	assert.True(t, strings.HasPrefix(out.String(), "Usage: breaktime <command> [options]"))

	out.Reset()
	assert.True(t, parse("pause", "-d", "1h").RunOrForward(&out))
	assert.Empty(t, out.String())
}

func TestPromptAccessors(t *testing.T) {
	cmd := parse("long", "-T", "Stretch up !", "--text", "Go stretch !", "-n")
	assert.Equal(t, "Stretch up !", cmd.Title())
	assert.Equal(t, "Go stretch !", cmd.Text())
	assert.True(t, cmd.NoSkip())

	bare := parse("mini")
	assert.Empty(t, bare.Title())
	assert.Empty(t, bare.Text())
	assert.False(t, bare.NoSkip())
}
