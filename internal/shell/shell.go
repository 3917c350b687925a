// Package shell implements the interactive org chart prompt.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"
	"github.com/theirongolddev/orgchart/internal/orgtree"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
)

// ErrExit is returned by Execute when the user asks to leave the shell.
var ErrExit = errors.New("exit requested")

// Session is the state of one shell: the chart, who is operating on it and
// the currently selected node.
type Session struct {
	Tree     *orgtree.Tree
	Operator model.Operator
	Selected string

	// SaveFunc persists the chart. Nil means the session is memory-only.
	SaveFunc func(*orgtree.Tree) error
	AutoSave bool

	Out io.Writer
	Log *logrus.Logger

	dirty bool
}

// NewSession creates a session writing to out.
func NewSession(tree *orgtree.Tree, op model.Operator, out io.Writer) *Session {
	return &Session{
		Tree:     tree,
		Operator: op,
		Out:      out,
		Log:      logrus.StandardLogger(),
	}
}

// Dirty reports whether there are mutations not yet saved.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Prompt returns the prompt string reflecting the current selection.
func (s *Session) Prompt() string {
	if s.Selected == "" {
		return "orgchart> "
	}
	if n, err := s.Tree.Get(s.Selected); err == nil {
		return fmt.Sprintf("orgchart [%s]> ", cli.Truncate(n.Name, 24))
	}
	return "orgchart> "
}

// Config holds readline options for Run.
type Config struct {
	HistoryFile string
}

// Run reads commands until exit or EOF.
func (s *Session) Run(cfg Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.Prompt(),
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintf(s.Out, "Org chart shell. %s loaded. Type 'help' for commands.\n",
		cli.FormatCount(s.Tree.Len(), "node"))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(s.Out, "Use 'exit' to leave the shell.")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if err := s.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				break
			}
			fmt.Fprintln(s.Out, cli.ErrorStyle.Render("error: "+err.Error()))
		}
		rl.SetPrompt(s.Prompt())
	}

	if s.dirty && s.SaveFunc != nil {
		fmt.Fprintln(s.Out, "Unsaved changes discarded. Use 'save' before 'exit' to keep them.")
	}
	return nil
}

// ParseArgs splits a command line on spaces, keeping double-quoted groups
// together.
func ParseArgs(input string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false
	quoted := false

	flush := func() {
		if cur.Len() > 0 || quoted {
			args = append(args, cur.String())
			cur.Reset()
		}
		quoted = false
	}

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case (r == ' ' || r == '\t') && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}

// Execute runs one command line.
func (s *Session) Execute(line string) error {
	args := ParseArgs(strings.TrimSpace(line))
	if len(args) == 0 {
		return nil
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "tree":
		return s.handleTree()
	case "ls":
		return s.handleList()
	case "select", "cd":
		return s.handleSelect(rest)
	case "add":
		return s.handleAdd(rest)
	case "del", "rm":
		return s.handleDelete(rest)
	case "rename":
		return s.handleRename(rest)
	case "title":
		return s.handleTitle(rest)
	case "suggest":
		return s.handleSuggest(rest)
	case "find":
		return s.handleFind(rest)
	case "show":
		return s.handleShow(rest)
	case "save":
		return s.handleSave()
	case "help":
		s.printHelp()
		return nil
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commandHelp))
	for _, c := range commandHelp {
		items = append(items, readline.PcItem(c.name))
	}
	return readline.NewPrefixCompleter(items...)
}

var commandHelp = []struct {
	name, usage, desc string
}{
	{"tree", "tree", "print the whole chart"},
	{"ls", "ls", "list direct reports of the selection, or the roots"},
	{"select", "select ID|-", "select a node, '-' clears the selection"},
	{"add", "add NAME [TITLE [DEPARTMENT]]", "add a report under the selection (admin)"},
	{"del", "del ID", "remove a node and everyone under it (admin)"},
	{"rename", "rename ID NAME", "change a node's name (admin)"},
	{"title", "title ID TITLE", "change a node's title (admin)"},
	{"suggest", "suggest ID", "apply a suggested title (admin)"},
	{"find", "find QUERY", "search names, titles and departments"},
	{"show", "show [ID]", "show one node in detail"},
	{"save", "save", "write the chart to the database"},
	{"help", "help", "show this list"},
	{"exit", "exit", "leave the shell"},
}

func (s *Session) printHelp() {
	rows := make([][]string, 0, len(commandHelp))
	for _, c := range commandHelp {
		rows = append(rows, []string{c.usage, c.desc})
	}
	fmt.Fprint(s.Out, cli.RenderTable(cli.Table{
		Headers:   []string{"Command", "Description"},
		Rows:      rows,
		LeftAlign: true,
	}))
}
