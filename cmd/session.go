package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/khrees2412/placement/internal/app"
	"github.com/khrees2412/placement/pkg/models"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"tui"},
	Short:   "Work on the board interactively",
	Long: `Start an interactive session on the board. Changes stay in memory until you
type 'save'; 'quit' warns once if there are unsaved changes.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{boardAnnotation: boardManual},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		s := &session{app: application, out: cmd.OutOrStdout(), now: time.Now}
		err = s.run(cmd.Context(), cmd.InOrStdin())
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Interrupted.")
			return nil
		}
		return err
	},
}

const sessionHelp = `Commands:
  board [role ...]              show the board, optionally for some roles
  roles                         list roles
  add <company> <role> [note]   add an application
  show <id>                     show one application
  move <id> <status>            move to Applied, PPT or Test
  advance <id>                  move to the next stage
  set <id> <field> <value>      set a note, date or time
  clear <id> <field>            remove a date or time
  note <id> <stage> <value>     record a note, date or time for a stage
  delete <id>                   delete an application
  stats                         counts and upcoming dates
  save                          write the working board
  export [file]                 write a JSON document
  import <file>                 replace the board from a JSON document
  push / pull                   write to / replace from the sheet
  help                          this text
  quit                          leave the session
Quote arguments that contain spaces: add "Acme Inc" "Data Analyst"`

type session struct {
	app *app.App
	out io.Writer
	now func() time.Time

	quitArmed bool
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, titleStyle.Render("Placement Session"))
	fmt.Fprintln(s.out, "Type 'help' for commands, 'quit' to leave.")

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(in, done)

	for {
		fmt.Fprint(s.out, "\n> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			s.discard()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.discard()
				return <-readErr
			}
			if quit := s.exec(ctx, line); quit {
				return nil
			}
		}
	}
}

func (s *session) discard() {
	if s.app.Dirty() {
		fmt.Fprintln(s.out, "\nUnsaved changes were discarded.")
	}
}

// readLines scans in on its own goroutine so a blocked read does not hold
// up cancellation. The line channel is closed at end of input, after the
// scanner error has been sent.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// exec runs one line. Errors are printed and the session continues.
func (s *session) exec(ctx context.Context, line string) (quit bool) {
	args, err := splitArgs(line)
	if err != nil {
		s.fail(err)
		return false
	}
	if len(args) == 0 {
		return false
	}
	verb, args := strings.ToLower(args[0]), args[1:]
	if verb != "quit" && verb != "exit" && verb != "q" {
		s.quitArmed = false
	}

	if err := s.dispatch(ctx, verb, args); err != nil {
		if errors.Is(err, errQuit) {
			return true
		}
		s.fail(err)
	}
	return false
}

var errQuit = errors.New("quit")

func (s *session) dispatch(ctx context.Context, verb string, args []string) error {
	a := s.app
	switch verb {
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)

	case "quit", "exit", "q":
		if a.Dirty() && !s.quitArmed {
			s.quitArmed = true
			fmt.Fprintln(s.out, "You have unsaved changes. Type 'save' to keep them or 'quit' again to discard.")
			return nil
		}
		return errQuit

	case "board", "ls":
		printBoard(s.out, a.Store, args)

	case "roles":
		printRoles(s.out, a.Store)

	case "add":
		if err := wantArgs(args, 2, 3, "add <company> <role> [note]"); err != nil {
			return err
		}
		var note string
		if len(args) == 3 {
			note = args[2]
		}
		rec, err := a.Create(ctx, args[0], args[1], note)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Added %s at %s (ID: %s)\n", rec.Role, rec.Company, shortID(rec.ID))

	case "show":
		if err := wantArgs(args, 1, 1, "show <id>"); err != nil {
			return err
		}
		id, err := a.ResolveID(args[0])
		if err != nil {
			return err
		}
		rec, err := a.Store.Get(id)
		if err != nil {
			return err
		}
		printRecord(s.out, rec)

	case "move":
		if err := wantArgs(args, 2, 2, "move <id> <status>"); err != nil {
			return err
		}
		status, err := parseStatusArg(args[1])
		if err != nil {
			return err
		}
		rec, err := a.Move(ctx, args[0], status)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ %s at %s moved to %s\n", rec.Role, rec.Company, rec.Status)

	case "advance", "next":
		if err := wantArgs(args, 1, 1, "advance <id>"); err != nil {
			return err
		}
		rec, err := a.Advance(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ %s at %s moved to %s\n", rec.Role, rec.Company, rec.Status)

	case "set", "clear":
		var raw string
		if verb == "set" {
			if err := wantArgs(args, 3, 3, "set <id> <field> <value>"); err != nil {
				return err
			}
			raw = args[2]
		} else if err := wantArgs(args, 2, 2, "clear <id> <field>"); err != nil {
			return err
		}
		field, err := models.ParseField(strings.ToLower(args[1]))
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, fieldNames())
		}
		rec, err := a.SetField(ctx, args[0], field, raw)
		if err != nil {
			return err
		}
		printFieldChange(s.out, rec, field)

	case "note":
		if err := wantArgs(args, 3, 3, "note <id> <stage> <value>"); err != nil {
			return err
		}
		stage, err := parseStatusArg(args[1])
		if err != nil {
			return err
		}
		field, rec, err := a.SetStageValue(ctx, args[0], stage, args[2])
		if err != nil {
			return err
		}
		printFieldChange(s.out, rec, field)

	case "delete", "rm":
		if err := wantArgs(args, 1, 1, "delete <id>"); err != nil {
			return err
		}
		rec, err := a.Delete(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Deleted %s at %s\n", rec.Role, rec.Company)

	case "stats":
		printStats(s.out, a.Store.List(), s.now())

	case "save":
		if err := a.SaveWorking(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Saved %d applications to %s\n", a.Store.Len(), a.Config.DataFile)

	case "export":
		if err := wantArgs(args, 0, 1, "export [file]"); err != nil {
			return err
		}
		out := a.Config.ExportFile
		if len(args) == 1 {
			out = args[0]
		}
		if err := a.SaveDocument(ctx, out); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Exported %d applications to %s\n", a.Store.Len(), out)

	case "import":
		if err := wantArgs(args, 1, 1, "import <file>"); err != nil {
			return err
		}
		if err := a.LoadDocument(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Imported %d applications from %s\n", a.Store.Len(), args[0])

	case "push":
		if err := a.Push(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Pushed %d applications\n", a.Store.Len())

	case "pull":
		if err := a.Pull(ctx); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Pulled %d applications\n", a.Store.Len())

	default:
		return fmt.Errorf("unknown command %q, type 'help'", verb)
	}
	return nil
}

func (s *session) fail(err error) {
	fmt.Fprintf(s.out, "%s %v\n", errorStyle.Render(app.Label(err)+":"), err)
}

func wantArgs(args []string, lo, hi int, usage string) error {
	if len(args) < lo || len(args) > hi {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

// splitArgs splits a line on spaces, keeping double- or single-quoted
// sections together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
