// Package command parses BreakTime command lines and decides whether a
// command runs in the invoking process or belongs to the running instance.
package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	hostFlagPrefix = "--"

	keywordIndefinitely = "indefinitely"
	keywordUntilMorning = "until-morning"

	// NoDelay is returned by DurationToMs when breaks pause without a timed resume.
	NoDelay int64 = 1
)

var (
	// ErrUnsupportedCommand indicates the first argument is not a known command.
	ErrUnsupportedCommand = errors.New("command is not supported")
	// ErrUnsupportedOption indicates an option the resolved command does not accept.
	ErrUnsupportedOption = errors.New("option is not valid for command")
	// ErrMissingValue indicates a value option was the last argument.
	ErrMissingValue = errors.New("option requires a value")
)

// MorningClock reports how long until the next morning boundary.
type MorningClock interface {
	UntilMorning() time.Duration
}

// Options maps an option's long name without dashes to a string value or true.
type Options map[string]any

// Value returns the value of a value-taking option.
func (options Options) Value(key string) (string, bool) {
	value, ok := options[key].(string)
	return value, ok
}

// Flag reports whether a flag option was given.
func (options Options) Flag(key string) bool {
	value, ok := options[key].(bool)
	return ok && value
}

// Command is a parsed command line.
type Command struct {
	Name    string
	Options Options
	Version string

	hostFlags    []string
	err          error
	optionErrors []error
	logger       *slog.Logger
}

// ParseOption configures a Command.
type ParseOption func(*Command)

// WithLogger sets the logger used to report parse errors.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(command *Command) {
		command.logger = logger
	}
}

// New parses input, ignoring the leading run of host runtime flags.
func New(input []string, version string, opts ...ParseOption) *Command {
	command := &Command{
		Version: version,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(command)
	}

	command.hostFlags = HostFlags(input)
	command.parse(input[len(command.hostFlags):])
	return command
}

// HostFlags returns the leading arguments that start with "--".
// Scanning stops at the first argument that does not.
func HostFlags(input []string) []string {
	i := 0
	for i < len(input) && strings.HasPrefix(input[i], hostFlagPrefix) {
		i++
	}
	return input[:i]
}

func (command *Command) parse(args []string) {
	name := "help"
	if len(args) > 0 {
		name = args[0]
	}

	if _, ok := Lookup(name); !ok {
		command.err = fmt.Errorf("%w: %s", ErrUnsupportedCommand, name)
		command.logger.Error("parse command", "error", command.err)
		return
	}

	command.Name = name
	if len(args) > 0 {
		args = args[1:]
	}
	command.Options = command.GetOpts(args)
}

// GetOpts parses tokens against the options of the resolved command.
// It returns nil when the command declares no options. Unknown tokens are
// logged and skipped.
func (command *Command) GetOpts(tokens []string) Options {
	descriptor, ok := Lookup(command.Name)
	if !ok || len(descriptor.Options) == 0 {
		return nil
	}

	options := Options{}
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		option := matchOption(descriptor.Options, token)
		if option == nil {
			command.rejectOption(fmt.Errorf("%w: %s for %s", ErrUnsupportedOption, token, command.Name))
			continue
		}

		if !option.TakesValue {
			options[option.Key()] = true
			continue
		}
		if i+1 >= len(tokens) {
			command.rejectOption(fmt.Errorf("%w: %s for %s", ErrMissingValue, token, command.Name))
			continue
		}
		i++
		options[option.Key()] = tokens[i]
	}
	return options
}

func matchOption(options []*Option, token string) *Option {
	for _, option := range options {
		if option.Long == token || option.Short == token {
			return option
		}
	}
	return nil
}

func (command *Command) rejectOption(err error) {
	command.optionErrors = append(command.optionErrors, err)
	command.logger.Error("parse options", "error", err)
}

// Err returns ErrUnsupportedCommand when the command could not be resolved.
func (command *Command) Err() error {
	return command.err
}

// OptionErrors returns the option tokens rejected while parsing.
func (command *Command) OptionErrors() []error {
	return append([]error(nil), command.optionErrors...)
}

// HostFlags returns the host runtime flags stripped before parsing.
func (command *Command) HostFlags() []string {
	return append([]string(nil), command.hostFlags...)
}

// Title returns the --title option, or "" when absent.
func (command *Command) Title() string {
	title, _ := command.Options.Value(optionTitle.Key())
	return title
}

// Text returns the --text option, or "" when absent.
func (command *Command) Text() string {
	text, _ := command.Options.Value(optionText.Key())
	return text
}

// NoSkip reports whether --noskip was given.
func (command *Command) NoSkip() bool {
	return command.Options.Flag(optionNoSkip.Key())
}

// Duration returns the raw --duration option, or "" when absent.
func (command *Command) Duration() string {
	duration, _ := command.Options.Value(optionDuration.Key())
	return duration
}

// DurationToMs resolves the duration option in milliseconds.
// It returns NoDelay when no duration was given or for "indefinitely", and
// InvalidDuration when the value cannot be parsed. Callers must reject
// InvalidDuration.
func (command *Command) DurationToMs(morning MorningClock) int64 {
	duration := command.Duration()
	if duration == "" {
		return NoDelay
	}

	switch duration {
	case keywordIndefinitely:
		return NoDelay
	case keywordUntilMorning:
		if morning == nil {
			command.logger.Error("resolve duration", "duration", duration, "error", "no morning clock")
			return InvalidDuration
		}
		return morning.UntilMorning().Milliseconds()
	default:
		return ParseDuration(duration)
	}
}

// CheckInMain reports whether the command must run in the main instance.
func (command *Command) CheckInMain() bool {
	switch command.Name {
	case "", "help", "version":
		return false
	default:
		return true
	}
}

// RunOrForward runs help and version, writing to out. It returns true when
// the command has to be forwarded to the main instance instead.
func (command *Command) RunOrForward(out io.Writer) bool {
	switch command.Name {
	case "":
		return false
	case "help":
		command.Help(out)
		return false
	case "version":
		fmt.Fprintf(out, "BreakTime version %s\n", command.Version)
		return false
	default:
		command.logger.Info("forwarding command to main instance", "command", command.Name)
		return true
	}
}
