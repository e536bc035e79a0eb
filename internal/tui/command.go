package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a parsed ":" prompt line.
type Command struct {
	Name string
	Args []string
}

// Short forms accepted for command names.
var commandAliases = map[string]string{
	"u":    "users",
	"user": "users",
	"b":    "books",
	"book": "books",
	"hist": "history",
	"h":    "help",
	"?":    "help",
	"q":    "quit",
	"q!":   "quit",
	"exit": "quit",
	"ps":   "pagesize",
}

// Commands lists the canonical command names for autocomplete.
var Commands = []string{
	"users", "books", "import ", "template ", "history", "login", "logout",
	"filter ", "clear", "range ", "sort ", "page ", "pagesize ", "refresh", "help", "quit",
}

// ParseCommand parses a command line without its leading ':'.
func ParseCommand(input string) Command {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}
	}
	name := strings.ToLower(fields[0])
	if canonical, ok := commandAliases[name]; ok {
		name = canonical
	}
	return Command{Name: name, Args: fields[1:]}
}

// Rest joins the arguments back together, for values that may hold spaces.
func (c Command) Rest() string {
	return strings.Join(c.Args, " ")
}

// IntArg parses the single positive integer argument of c.
func (c Command) IntArg() (int, error) {
	if len(c.Args) != 1 {
		return 0, fmt.Errorf("%s takes one number", c.Name)
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: %q is not a positive number", c.Name, c.Args[0])
	}
	return n, nil
}
