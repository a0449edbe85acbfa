// Package speech pronounces words when a card is revealed.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/config"
)

// Speaker pronounces a word. Implementations must not block the caller for
// longer than the pronunciation itself.
type Speaker interface {
	Speak(ctx context.Context, word, lang string) error
}

// Nop is a Speaker that does nothing.
type Nop struct{}

func (Nop) Speak(context.Context, string, string) error { return nil }

// ErrNoCommand is returned by NewCommand for an empty command line.
var ErrNoCommand = errors.New("speech: empty command")

const defaultTimeout = 10 * time.Second

// Command runs an external text-to-speech program such as say or espeak.
// The command line may contain {word}, {lang} and {rate} placeholders; without
// {word} the word is appended as the last argument.
type Command struct {
	name    string
	args    []string
	rate    string
	timeout time.Duration
	log     *slog.Logger

	run func(ctx context.Context, name string, args ...string) error
}

// NewCommand parses a command line such as "espeak -v {lang} {word}".
func NewCommand(log *slog.Logger, commandLine, rate string) (*Command, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	return &Command{
		name:    fields[0],
		args:    fields[1:],
		rate:    rate,
		timeout: defaultTimeout,
		log:     log.With("service", "speech"),
		run:     runCommand,
	}, nil
}

// Args returns the argument list for one invocation.
func (c *Command) Args(word, lang string) []string {
	r := strings.NewReplacer("{word}", word, "{lang}", lang, "{rate}", c.rate)
	out := make([]string, 0, len(c.args)+1)
	hasWord := false
	for _, a := range c.args {
		if strings.Contains(a, "{word}") {
			hasWord = true
		}
		out = append(out, r.Replace(a))
	}
	if !hasWord {
		out = append(out, word)
	}
	return out
}

// Speak runs the command. Failures are logged and swallowed: a missing voice
// must never interrupt a study session.
func (c *Command) Speak(ctx context.Context, word, lang string) error {
	if strings.TrimSpace(word) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := c.Args(word, lang)
	if err := c.run(ctx, c.name, args...); err != nil {
		c.log.WarnContext(ctx, "speech.failed",
			slog.String("command", c.name),
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// FromConfig builds the Speaker described by cfg. A disabled config or an
// empty command yields Nop.
func FromConfig(log *slog.Logger, cfg config.SpeechConfig) Speaker {
	if !cfg.Enabled {
		return Nop{}
	}
	cmd, err := NewCommand(log, cfg.Command, cfg.Rate)
	if err != nil {
		log.Warn("speech disabled", slog.String("reason", err.Error()))
		return Nop{}
	}
	return cmd
}
