package command

// Option describes a command-line option accepted by one or more commands.
type Option struct {
	Long        string
	Short       string
	Description string
	TakesValue  bool
}

// Key returns the name an option is stored under in Options.
func (option *Option) Key() string {
	return option.Long[2:]
}

// Descriptor describes a supported command.
type Descriptor struct {
	Name        string
	Description string
	Options     []*Option
}

// Example is an illustrative invocation shown in the help text.
type Example struct {
	Cmd         string
	Description string
}

var (
	optionTitle = &Option{
		Long:        "--title",
		Short:       "-T",
		Description: "Specify title for next break (Long or Mini)",
		TakesValue:  true,
	}
	optionText = &Option{
		Long:        "--text",
		Short:       "-t",
		Description: "Specify text for next break (Long Break only)",
		TakesValue:  true,
	}
	optionNoSkip = &Option{
		Long:        "--noskip",
		Short:       "-n",
		Description: "Do not skip directly to this break (Long or Mini)",
	}
	optionDuration = &Option{
		Long:        "--duration",
		Short:       "-d",
		Description: "Specify duration for pausing breaks (Pause only) [indefinitely|until-morning|HHhMMm|HHh|MMm|MM]",
		TakesValue:  true,
	}
)

// allOptions lists every known option in help order.
var allOptions = []*Option{optionTitle, optionText, optionNoSkip, optionDuration}

// commandOrder keeps help output stable since map iteration is not.
var commandOrder = []string{"help", "version", "reset", "pause", "resume", "toggle", "mini", "long"}

var registry = map[string]*Descriptor{
	"help":    {Name: "help", Description: "Show this help message"},
	"version": {Name: "version", Description: "Show current BreakTime version"},
	"reset":   {Name: "reset", Description: "Reset breaks"},
	"pause": {
		Name:        "pause",
		Description: "Pause breaks",
		Options:     []*Option{optionDuration},
	},
	"resume": {Name: "resume", Description: "Resume from a pause"},
	"toggle": {Name: "toggle", Description: "Toggle breaks between resume/paused"},
	"mini": {
		Name:        "mini",
		Description: "Skips to and customize next Mini Break",
		Options:     []*Option{optionTitle, optionNoSkip},
	},
	"long": {
		Name:        "long",
		Description: "Skips to and customize next Long Break",
		Options:     []*Option{optionText, optionTitle, optionNoSkip},
	},
}

var allExamples = []Example{
	{Cmd: "breaktime resume", Description: "Start BreakTime in the system tray, or resume breaks"},
	{Cmd: "breaktime pause", Description: "Pause breaks indefinitely"},
	{Cmd: "breaktime pause -d 60", Description: "Pause breaks for one hour"},
	{Cmd: "breaktime pause -d 1h", Description: "Pause breaks for one hour"},
	{Cmd: "breaktime pause -d 1h20m", Description: "Pause breaks for one hour and twenty minutes"},
	{Cmd: `breaktime mini -T "Stretch up !"`, Description: `Skips to next Mini Break with "Stretch up!" title`},
	{Cmd: `breaktime long -T "Stretch up !" --noskip`, Description: `Sets next Break title to "Stretch up!"`},
	{Cmd: `breaktime long -T "Stretch up !" -t "Go stretch !"`, Description: `Skips to next long break, sets title to "Stretch up !" and text to "Go stretch !"`},
}

// Lookup returns the descriptor of a supported command.
func Lookup(name string) (*Descriptor, bool) {
	descriptor, ok := registry[name]
	return descriptor, ok
}

// Names returns the supported command names in help order.
func Names() []string {
	return append([]string(nil), commandOrder...)
}
