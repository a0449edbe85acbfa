package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/w-udagawa/vlingual-cards/internal/app"
	"github.com/w-udagawa/vlingual-cards/internal/catalog"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
	"github.com/w-udagawa/vlingual-cards/internal/service/study"
)

const studyHelp = "keys: enter/f flip · 1 again · 2 ok · 3 easy · r reset · a toggle again-only · q quit"

func newStudyCommand(ctx *commandContext) *cobra.Command {
	var castID, videoID, policy, source string

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run an interactive study session in the terminal",
		Long:  "Run an interactive study session. Each line of input is one key: " + studyHelp + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.Policy(policy)
			if policy != "" && !p.IsValid() {
				return fmt.Errorf("unknown policy %q (want counter or mastery)", policy)
			}

			return ctx.withApp(cmd, applySource(source), func(c context.Context, a *app.Components) error {
				if _, err := a.Library.Load(c); err != nil {
					return err
				}
				if policy == "" {
					p = domain.Policy(a.Config.Study.Policy)
				}

				ref := domain.PoolRef{CastID: resolveCast(a, castID), VideoID: videoID}
				ctrl := a.NewSessionWithPolicy(p)
				defer ctrl.Close()

				st, err := ctrl.SelectPool(c, ref)
				if err != nil {
					return fmt.Errorf("select pool: %w", err)
				}

				s := &studyLoop{
					ctrl:   ctrl,
					in:     bufio.NewScanner(cmd.InOrStdin()),
					out:    cmd.OutOrStdout(),
					prompt: isTerminal(cmd.InOrStdin()),
				}
				return s.run(c, st)
			})
		},
	}

	cmd.Flags().StringVar(&castID, "cast", "", "Cast id or name to study")
	cmd.Flags().StringVar(&videoID, "video", "", "Video id to study")
	cmd.Flags().StringVar(&policy, "policy", "", "Progress policy: counter or mastery (default from config)")
	cmd.Flags().StringVar(&source, "source", "", "Dataset file path or URL (overrides config)")
	return cmd
}

// resolveCast accepts a cast id or a display name.
func resolveCast(a *app.Components, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if _, ok := a.Library.Catalog().Cast(v); ok {
		return v
	}
	return catalog.Slug(domain.NormalizeName(v))
}

type studySession interface {
	Flip(ctx context.Context) study.Result
	Rate(ctx context.Context, r domain.Rating) (study.Result, error)
	SetFilter(mode domain.FilterMode) (study.Result, error)
	Reset(ctx context.Context) (study.State, error)
	Snapshot() study.State
	Settled() <-chan struct{}
}

type studyLoop struct {
	ctrl   studySession
	in     *bufio.Scanner
	out    io.Writer
	prompt bool
}

func (s *studyLoop) run(ctx context.Context, st study.State) error {
	if st.PoolSize == 0 {
		fmt.Fprintln(s.out, "No words in this pool.")
		return nil
	}
	fmt.Fprintln(s.out, studyHelp)
	s.render(st)

	for {
		if s.prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !s.in.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		key := strings.ToLower(strings.TrimSpace(s.in.Text()))
		if key == "q" {
			break
		}

		next, err := s.apply(ctx, key, st)
		if err != nil {
			return err
		}
		st = next
		s.render(st)
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintf(s.out, "Reviewed %d cards.\n", s.ctrl.Snapshot().Reviewed)
	return nil
}

func (s *studyLoop) apply(ctx context.Context, key string, st study.State) (study.State, error) {
	switch key {
	case "", "f":
		return s.ctrl.Flip(ctx).State, nil
	case "1", "2", "3":
		rating := map[string]domain.Rating{"1": domain.RatingAgain, "2": domain.RatingOK, "3": domain.RatingEasy}[key]
		res, err := s.ctrl.Rate(ctx, rating)
		if err != nil {
			return st, err
		}
		return s.settle(ctx, res.State)
	case "r":
		return s.ctrl.Reset(ctx)
	case "a":
		mode := domain.FilterAgainOnly
		if st.Filter == domain.FilterAgainOnly {
			mode = domain.FilterAll
		}
		res, err := s.ctrl.SetFilter(mode)
		if err != nil {
			return st, err
		}
		if mode == domain.FilterAgainOnly && res.State.Filter == domain.FilterAll {
			fmt.Fprintln(s.out, "No words rated again yet; showing all words.")
		}
		return res.State, nil
	}
	fmt.Fprintln(s.out, studyHelp)
	return st, nil
}

// settle waits out a mastery transition so the next card is shown.
func (s *studyLoop) settle(ctx context.Context, st study.State) (study.State, error) {
	if st.Phase != study.PhaseTransitioning {
		return st, nil
	}
	select {
	case <-s.ctrl.Settled():
		return s.ctrl.Snapshot(), nil
	case <-ctx.Done():
		return st, ctx.Err()
	}
}

func (s *studyLoop) render(st study.State) {
	status := fmt.Sprintf("[%d/%d studied · reviewed %d · filter %s]", st.Studied, st.PoolSize, st.Reviewed, st.Filter)
	if st.Policy == domain.PolicyMastery {
		status = fmt.Sprintf("[%d/%d mastered · reviewed %d · filter %s]", st.Mastered, st.PoolSize, st.Reviewed, st.Filter)
	}
	fmt.Fprintln(s.out, status)

	if st.Phase == study.PhaseComplete {
		fmt.Fprintln(s.out, "Every word in this pool is mastered. r to start over, q to quit.")
		return
	}
	card := st.Current
	if card == nil {
		return
	}

	fmt.Fprintf(s.out, "  %s  (%s · %s)\n", card.Term, card.Difficulty.Label(), card.PartOfSpeech)
	if !st.Flipped {
		return
	}
	fmt.Fprintf(s.out, "  = %s\n", card.Translation)
	if card.Context != "" {
		fmt.Fprintf(s.out, "  \"%s\"\n", card.Context)
	}
	if title := card.VideoTitle.Or(""); title != "" {
		fmt.Fprintf(s.out, "  from %s\n", title)
	}
	if st.Entry != nil {
		fmt.Fprintf(s.out, "  seen %d · again %d · ok %d · easy %d\n", st.Entry.Seen, st.Entry.Again, st.Entry.OK, st.Entry.Easy)
	}
}
