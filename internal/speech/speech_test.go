package speech

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/config"
)

func TestCommand_Args(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    []string
		program string
	}{
		{"appends word", "say", []string{"hello"}, "say"},
		{"placeholders", "espeak -v {lang} -s {rate} {word}", []string{"-v", "en-US", "-s", "0.8", "hello"}, "espeak"},
		{"embedded placeholder", "tts --text={word}", []string{"--text=hello"}, "tts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewCommand(slog.Default(), tt.line, "0.8")
			require.NoError(t, err)
			assert.Equal(t, tt.program, c.name)
			assert.Equal(t, tt.want, c.Args("hello", "en-US"))
		})
	}
}

func TestNewCommand_Empty(t *testing.T) {
	t.Parallel()

	_, err := NewCommand(slog.Default(), "   ", "1")
	assert.ErrorIs(t, err, ErrNoCommand)
}

func TestCommand_SpeakSwallowsFailures(t *testing.T) {
	t.Parallel()

	c, err := NewCommand(slog.Default(), "say -v {lang}", "1")
	require.NoError(t, err)

	var gotName string
	var gotArgs []string
	c.run = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return errors.New("no voice")
	}

	assert.NoError(t, c.Speak(context.Background(), "serendipity", "en-GB"))
	assert.Equal(t, "say", gotName)
	assert.Equal(t, []string{"-v", "en-GB", "serendipity"}, gotArgs)
}

func TestCommand_SpeakSkipsBlankWord(t *testing.T) {
	t.Parallel()

	c, err := NewCommand(slog.Default(), "say", "1")
	require.NoError(t, err)
	c.run = func(context.Context, string, ...string) error {
		t.Fatal("command should not run")
		return nil
	}
	assert.NoError(t, c.Speak(context.Background(), "  ", "en-US"))
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	assert.IsType(t, Nop{}, FromConfig(slog.Default(), config.SpeechConfig{Enabled: false, Command: "say"}))
	assert.IsType(t, Nop{}, FromConfig(slog.Default(), config.SpeechConfig{Enabled: true}))
	assert.IsType(t, &Command{}, FromConfig(slog.Default(), config.SpeechConfig{Enabled: true, Command: "say"}))
}
