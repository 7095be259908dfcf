// Package cli is the command-line and interactive shell around tagtext.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/unkn0wn-root/tagtext/internal/config"
)

const (
	Version = "1.0"

	highlightOn  = "\x1b[31m"
	highlightOff = "\x1b[0m"

	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type App struct {
	st    *stack
	in    *bufio.Reader
	out   io.Writer
	err   io.Writer
	color bool
}

// New wires the codec stack described by cfg. Logs go to stderr.
func New(cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := build(cfg, stderr)
	if err != nil {
		return nil, err
	}
	return &App{
		st:    st,
		in:    bufio.NewReader(stdin),
		out:   stdout,
		err:   stderr,
		color: useColor(cfg.Color, stdout),
	}, nil
}

func (a *App) Close() error { return a.st.close() }

// Run dispatches on args (program name excluded) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	switch len(args) {
	case 0:
		if err := a.interactive(ctx); err != nil {
			fmt.Fprintf(a.err, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	case 1:
		if args[0] == "-h" || args[0] == "--help" {
			printUsage(a.out)
			return exitOK
		}
		fmt.Fprintln(a.out, "Error: Invalid arguments. Use -h for help.")
		return exitUsage
	case 2:
		switch args[0] {
		case "-e", "--encode":
			return a.encodeOnce(ctx, args[1])
		case "-d", "--decode":
			return a.decodeOnce(ctx, args[1])
		default:
			fmt.Fprintf(a.out, "Error: Invalid option '%s'. Use -h for help.\n", args[0])
			return exitUsage
		}
	default:
		fmt.Fprintln(a.out, "Error: Too many arguments. Use -h for help.")
		return exitUsage
	}
}

func (a *App) encodeOnce(ctx context.Context, text string) int {
	encoded, err := a.st.t.Encode(ctx, text)
	if err != nil {
		fmt.Fprintf(a.err, "Error: %s\n", message(err))
		return exitError
	}
	fmt.Fprintf(a.out, "\"%s\"\n", encoded)
	return exitOK
}

func (a *App) decodeOnce(ctx context.Context, text string) int {
	decoded, err := a.st.t.Decode(ctx, StripQuotes(text))
	if err != nil {
		fmt.Fprintf(a.err, "Error: %s\n", message(err))
		return exitError
	}
	fmt.Fprintf(a.out, "Decoded: %s\n", a.highlight(decoded))
	return exitOK
}

func (a *App) interactive(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out, "\n=== Hidden Text Encoder/Decoder ===")
		fmt.Fprintln(a.out, "1. Encode text (convert to hidden characters)")
		fmt.Fprintln(a.out, "2. Decode text (reveal hidden message)")
		fmt.Fprintln(a.out, "3. Exit")

		choice, err := a.prompt("\nChoose an option (1-3): ")
		if errors.Is(err, io.EOF) && choice == "" {
			fmt.Fprintln(a.out, "\nGoodbye!")
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		switch choice {
		case "1":
			err = a.handleEncode(ctx)
		case "2":
			err = a.handleDecode(ctx)
		case "3":
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please enter 1, 2, or 3.")
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (a *App) handleEncode(ctx context.Context) error {
	text, err := a.prompt("\nEnter text to encode: ")
	if text == "" {
		fmt.Fprintln(a.out, "No text entered.")
		return err
	}
	encoded, eerr := a.st.t.Encode(ctx, text)
	if eerr != nil {
		fmt.Fprintf(a.out, "Error encoding: %s\n", message(eerr))
		return err
	}
	fmt.Fprintln(a.out, "\nEncoded text (copy the content including quotes):")
	fmt.Fprintf(a.out, "\"%s\"\n", encoded)
	return err
}

func (a *App) handleDecode(ctx context.Context) error {
	text, err := a.prompt("\nEnter hidden text to decode: ")
	text = StripQuotes(text)
	if text == "" {
		fmt.Fprintln(a.out, "No text entered.")
		return err
	}
	decoded, derr := a.st.t.Decode(ctx, text)
	if derr != nil {
		fmt.Fprintf(a.out, "Error decoding: %s\n", message(derr))
		return err
	}
	fmt.Fprintf(a.out, "\nDecoded message: %s\n", a.highlight(decoded))
	return err
}

// prompt writes msg and reads one trimmed line. A final line without a
// newline is returned together with io.EOF.
func (a *App) prompt(msg string) (string, error) {
	fmt.Fprint(a.out, msg)
	line, err := a.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

func (a *App) highlight(s string) string {
	if !a.color {
		return s
	}
	return highlightOn + s + highlightOff
}

// message drops the package prefix from codec errors and capitalizes
// the rest: "tagtext: empty input" prints as "Empty input".
func message(err error) string {
	s, ok := strings.CutPrefix(err.Error(), "tagtext: ")
	if !ok || s == "" {
		return err.Error()
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// StripQuotes removes exactly one surrounding pair of matching quotes.
func StripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "never":
		return false
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	default:
		return true
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Hidden Text Tool v%s
Encode and decode text using hidden Unicode characters

Usage:
  tagtext                      # Interactive mode
  tagtext -e "text"            # Encode text
  tagtext --encode "text"      # Encode text
  tagtext -d "hidden"          # Decode hidden text
  tagtext --decode "hidden"    # Decode hidden text
  tagtext -h                   # Show this help

Configuration:
  %s=path/to/config.yaml  optional YAML file (log, cache, color, strict, normalize)
`, Version, config.EnvPath)
}
