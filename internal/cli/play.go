package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/catalogs"
	"github.com/randomchill-vibes/findthestate/internal/domain"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a game on the terminal: stdin is the input surface, stdout the render surface.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		catalogID string
		opts      domain.Options
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal by typing region codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			all, err := catalogs.Load(cfg.Catalog.Files)
			if err != nil {
				return err
			}
			id := catalogID
			if id == "" {
				id = cfg.Catalog.Default
			}
			if id == "" {
				id = catalogs.DefaultID
			}
			catalog, ok := all[id]
			if !ok {
				return fmt.Errorf("catalog %q: %w", id, domain.ErrCatalogNotFound)
			}
			return playGame(cmd.InOrStdin(), cmd.OutOrStdout(), catalog, opts, engineConfig(cfg))
		},
	}
	cmd.Flags().StringVar(&catalogID, "catalog", "", "catalog id to play")
	cmd.Flags().BoolVar(&opts.TimerEnabled, "timer", false, "time the game")
	cmd.Flags().BoolVar(&opts.KeepHighlightOnCorrect, "keep-highlight", true, "keep solved regions highlighted (1 point each instead of 2)")
	return cmd
}

func playGame(in io.Reader, out io.Writer, catalog domain.Catalog, opts domain.Options, cfg app.EngineConfig) error {
	engine := app.NewEngine(catalog, &textRenderer{out: out}, cfg)
	defer engine.Close()

	fmt.Fprintf(out, "%s: %d regions. Type a region code, or :start, :reset, :home, :quit.\n", catalog.Title, catalog.Len())
	engine.Start(opts)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
		case ":quit", ":q":
			return nil
		case ":start":
			engine.Start(opts)
		case ":reset":
			engine.Reset()
		case ":home":
			engine.GoHome()
		default:
			engine.SubmitClick(strings.ToUpper(line))
		}
	}
	return scanner.Err()
}

// textRenderer prints prompts and feedback; ticks and highlights have no text form.
type textRenderer struct {
	mu         sync.Mutex
	out        io.Writer
	lastPrompt string
}

func (r *textRenderer) Render(v domain.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.Feedback.Kind == domain.FeedbackIncorrect {
		fmt.Fprintln(r.out, v.Feedback.Text)
	}
	switch {
	case v.Phase == domain.PhaseIdle && r.lastPrompt != "":
		r.lastPrompt = ""
		fmt.Fprintln(r.out, "Click Start to Begin (:start)")
	case v.Prompt != "" && v.Prompt != r.lastPrompt:
		r.lastPrompt = v.Prompt
		fmt.Fprintf(r.out, "[%d/%d] Find: %s\n", v.Score, v.MaxScore, v.Prompt)
	}
}

func (r *textRenderer) Highlight(domain.Highlight) {}

func (r *textRenderer) Tick(string) {}

func (r *textRenderer) GameOver(s domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPrompt = ""
	fmt.Fprintf(r.out, "Game over! Score: %s, attempts: %d", s.ScoreText(), s.TotalAttempts)
	if s.Timed {
		fmt.Fprintf(r.out, ", time: %s", s.ElapsedText)
	}
	fmt.Fprintln(r.out)
}
