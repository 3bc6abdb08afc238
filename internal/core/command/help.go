package command

import (
	"fmt"
	"io"
	"strings"
)

const optionsPlaceholder = "[options]"

// Help writes the full help text to out.
func (command *Command) Help(out io.Writer) {
	fmt.Fprintln(out, HelpText())
}

// HelpText renders usage, commands, options and examples.
func HelpText() string {
	return commandsHelp() + optionsHelp() + examplesHelp()
}

func commandsHelp() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Usage: breaktime <command> %s\n\nCommands:", optionsPlaceholder)

	usages := make([]string, len(commandOrder))
	for i, name := range commandOrder {
		usages[i] = name
		if len(registry[name].Options) > 0 {
			usages[i] += " " + optionsPlaceholder
		}
	}
	width := longest(usages)

	for i, name := range commandOrder {
		fmt.Fprintf(&builder, "\n\tbreaktime %s %s", pad(usages[i], width), registry[name].Description)
	}
	return builder.String()
}

func optionsHelp() string {
	var builder strings.Builder
	builder.WriteString("\n\nOptions:")

	longs := make([]string, len(allOptions))
	for i, option := range allOptions {
		longs[i] = option.Long
	}
	width := longest(longs)

	for _, option := range allOptions {
		fmt.Fprintf(&builder, "\n\t%s, %s %s", option.Short, pad(option.Long, width), option.Description)
	}
	return builder.String()
}

func examplesHelp() string {
	var builder strings.Builder
	builder.WriteString("\n\nExamples:")

	cmds := make([]string, len(allExamples))
	for i, example := range allExamples {
		cmds[i] = example.Cmd
	}
	width := longest(cmds)

	for _, example := range allExamples {
		fmt.Fprintf(&builder, "\n\t%s %s", pad(example.Cmd, width), example.Description)
	}
	return builder.String()
}

func longest(values []string) int {
	width := 0
	for _, value := range values {
		width = max(width, len(value))
	}
	return width
}

func pad(value string, width int) string {
	return value + strings.Repeat(" ", width-len(value))
}
