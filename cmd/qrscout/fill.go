package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/qrscout/internal/engine"
	"github.com/alfredjeanlab/qrscout/internal/events"
	"github.com/alfredjeanlab/qrscout/internal/ui"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in the form interactively",
	Long: `Fill in the form interactively.

Type "help" at the prompt for commands. Values are kept for the session
only; "submit" prints the record and publishes it when NATS is configured.`,
	GroupID: "form",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tap := &events.RecordingPublisher{}
		eng, err := newSession(ctx, tap)
		if err != nil {
			return err
		}
		defer eng.Close()

		r := &repl{eng: eng, tap: tap}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:            r.prompt(),
			HistoryFile:       filepath.Join(cfg.StateDir, "fill_history"),
			AutoComplete:      r.completer(),
			InterruptPrompt:   "^C",
			EOFPrompt:         "quit",
			HistorySearchFold: true,
		})
		if err != nil {
			return fmt.Errorf("initializing readline: %w", err)
		}
		defer rl.Close()
		r.out = rl.Stdout()

		fmt.Fprintf(r.out, "Session %s. Type %s for commands.\n", eng.SessionID(), ui.RenderCommand("help"))
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(r.out, "Use 'quit' to exit.")
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			quit, err := r.exec(ctx, line)
			if err != nil {
				fmt.Fprintf(r.out, "%s %v\n", ui.RenderWarn("error:"), err)
			}
			if quit || ctx.Err() != nil {
				return nil
			}
			rl.SetPrompt(r.prompt())
		}
	},
}

// repl executes fill commands against one engine.
type repl struct {
	eng *engine.Engine
	tap *events.RecordingPublisher
	out io.Writer
}

var fillCommands = []struct{ name, usage string }{
	{"set", "set <section.code>=<value>...  set field values (or just <code>=<value>)"},
	{"get", "get <code>...                  show field values"},
	{"show", "show                           show the whole form"},
	{"missing", "missing                        list required fields without a value"},
	{"record", "record                         print the record for the current values"},
	{"submit", "submit                         print and publish the record if complete"},
	{"reset", "reset                          return values to their defaults"},
	{"import", "import <file>                  replace the schema"},
	{"export", "export [dir]                   write the schema snapshot file"},
	{"events", "events                         list events published this session"},
	{"help", "help                           show this list"},
	{"quit", "quit                           leave (also exit, Ctrl-D)"},
}

func (r *repl) prompt() string {
	n := len(r.eng.MissingRequiredFields())
	if n == 0 {
		return ui.RenderOK("qrscout") + "> "
	}
	return fmt.Sprintf("qrscout %s> ", ui.RenderWarn(fmt.Sprintf("(%d missing)", n)))
}

func (r *repl) completer() *readline.PrefixCompleter {
	fieldKeys := func(string) []string {
		var keys []string
		for _, s := range r.eng.Config().Sections {
			for _, f := range s.Fields {
				keys = append(keys, s.Name+"."+f.Code+"=")
			}
		}
		return keys
	}
	codes := func(string) []string {
		var out []string
		for _, f := range r.eng.Config().Fields() {
			out = append(out, f.Code)
		}
		return out
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(fillCommands))
	for _, c := range fillCommands {
		switch c.name {
		case "set":
			items = append(items, readline.PcItem(c.name, readline.PcItemDynamic(fieldKeys)))
		case "get":
			items = append(items, readline.PcItem(c.name, readline.PcItemDynamic(codes)))
		default:
			items = append(items, readline.PcItem(c.name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// exec runs one input line and reports whether the session should end.
func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	args := splitArgs(line)
	if len(args) == 0 {
		return false, nil
	}

	// A bare assignment is shorthand for set.
	if _, _, ok := splitField(args[0]); ok {
		args = append([]string{"set"}, args...)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "set":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: set <section.code>=<value>")
		}
		return false, applyAssignments(ctx, r.eng, rest)

	case "get":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: get <code>")
		}
		for _, code := range rest {
			v, ok := r.eng.FieldValue(code)
			if !ok {
				return false, fmt.Errorf("no field with code %q", code)
			}
			fmt.Fprintf(r.out, "%s = %s\n", code, v)
		}

	case "show":
		printForm(r.out, r.eng.Config())

	case "missing":
		printMissing(r.out, r.eng.Config(), r.eng.MissingRequiredFields())

	case "record":
		fmt.Fprintln(r.out, r.eng.Record())

	case "submit":
		line, missing, err := r.eng.Submit(ctx)
		if len(missing) > 0 {
			printMissing(r.out, r.eng.Config(), missing)
			return false, fmt.Errorf("record not submitted")
		}
		fmt.Fprintln(r.out, line)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, ui.RenderOK("Submitted.")+" Type "+ui.RenderCommand("reset")+" for the next match.")

	case "reset":
		r.eng.Reset(ctx)

	case "import":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: import <file>")
		}
		imported, err := importFile(ctx, r.eng, rest[0])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Imported %d sections, %d fields\n", len(imported.Sections), imported.FieldCount())

	case "export":
		dir := ""
		if len(rest) > 0 {
			dir = rest[0]
		}
		name, data, err := r.eng.ExportJSON(ctx)
		if err != nil {
			return false, err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return false, fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(r.out, "Wrote %s\n", path)

	case "events":
		for i, e := range r.tap.Events() {
			fmt.Fprintf(r.out, "%3d  %s\n", i+1, e.Topic)
		}

	case "help", "?":
		for _, c := range fillCommands {
			fmt.Fprintln(r.out, "  "+c.usage)
		}

	case "quit", "exit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

// splitArgs splits a line on spaces, keeping double-quoted runs together.
func splitArgs(line string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			quoted = !quoted
			started = true
		case (ch == ' ' || ch == '\t') && !quoted:
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(ch)
			started = true
		}
	}
	if started {
		args = append(args, current.String())
	}
	return args
}
