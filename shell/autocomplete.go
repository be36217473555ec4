package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command.
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-first-pick", "-teams", "-flex", "-scoring", "-season",
			"-league", "-opponent"},
	},
	"sim": {
		Options: []string{"-n", "-threads", "-stop"},
		Args:    []string{"show", "stop", "histogram"},
	},
	"combos": {
		Options: []string{"-n"},
	},
	"help": {
		Args: []string{"new", "pick", "sim"},
	},
}

var commandNames = []string{
	"help", "new", "rank", "pick", "auto", "advance", "status", "team",
	"build", "combos", "sim", "exit",
}

var stopValues = []string{"95", "98", "99"}

// Do implements the readline.AutoCompleter interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch strings.TrimPrefix(lastCompleteField, "-") {
		case "stop":
			if strings.HasPrefix(lastCompleteField, "-") {
				completions = stopValues
			}
		case "opponent":
			completions = []string{"adp", "sampled"}
		case "scoring":
			completions = []string{"PPR", "Half-PPR", "Standard"}
		case "flex":
			completions = []string{"None", "Standard", "'Super Flex'", "RB/WR"}
		}

		// Player names for pick.
		if cmdName == "pick" && completions == nil && c.sc.session != nil {
			prefix = strings.Join(fields[1:], " ")
			if endsWithSpace && prefix != "" {
				prefix += " "
			}
			for _, p := range c.sc.session.Undrafted() {
				completions = append(completions, p.Name)
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
