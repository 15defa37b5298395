package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"ludoteca/internal/server/core"
	"ludoteca/internal/server/storage"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Run is the entry point for the CLI mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, games, matches, add-game, add-match")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "games":
		return runGames(args[1:], out)
	case "matches":
		return runMatches(args[1:], out)
	case "add-game":
		return runAddGame(args[1:], out)
	case "add-match":
		return runAddMatch(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore opens the database at path with the schema in place
func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	store, err := storage.NewStore(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := store.InitDB(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *path == "" {
		return fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runGames(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("games", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := store.Session()
	defer sess.Close()

	games, err := sess.ListGames(context.Background())
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tMax Players\tDuration (min)\tCategory")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, g := range games {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", g.ID, g.Name, g.MaxPlayers, g.AverageDuration, g.Category)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func runMatches(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("matches", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.Int64("game", 0, "Game ID (required)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *gameID <= 0 {
		return fmt.Errorf("game ID required")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := store.Session()
	defer sess.Close()
	ctx := context.Background()

	game, err := sess.GetGame(ctx, *gameID)
	if err != nil {
		return fmt.Errorf("game %d: %w", *gameID, err)
	}

	matches, err := sess.ListMatches(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Fprintf(out, "%s (%s)\n\n", game.Name, game.Category)
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDate\tWinner\tScore")
	fmt.Fprintln(w, strings.Repeat("-", 48))
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", m.ID, m.Date.Format(storage.DateLayout), m.Winner, m.WinningScore)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d match(es)\n", len(matches))
	return nil
}

func runAddGame(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-game", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	name := fs.String("name", "", "Game name")
	players := fs.String("players", "", "Maximum number of players (blank is 0)")
	duration := fs.String("duration", "", "Average duration in minutes (blank is 0)")
	category := fs.String("category", "", "Category")
	interactive := fs.Bool("interactive", false, "Prompt for each field")

	if err := fs.Parse(args); err != nil {
		return err
	}

	values := map[string]string{
		core.FieldName:            *name,
		core.FieldMaxPlayers:      *players,
		core.FieldAverageDuration: *duration,
		core.FieldCategory:        *category,
	}
	if *interactive {
		prompted, err := promptFields([]prompt{
			{core.FieldName, "Name"},
			{core.FieldMaxPlayers, "Max players"},
			{core.FieldAverageDuration, "Average duration (min)"},
			{core.FieldCategory, "Category"},
		})
		if err != nil {
			return err
		}
		values = prompted
	}

	req := core.CreateGameRequest{
		Name:     values[core.FieldName],
		Category: values[core.FieldCategory],
	}
	var err error
	if req.MaxPlayers, err = core.ParseCount(core.FieldMaxPlayers, values[core.FieldMaxPlayers]); err != nil {
		return err
	}
	if req.AverageDuration, err = core.ParseCount(core.FieldAverageDuration, values[core.FieldAverageDuration]); err != nil {
		return err
	}
	if err := core.Validate(&req); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := store.Session()
	defer sess.Close()

	id, err := sess.InsertGame(context.Background(), storage.GameRecord{
		Name:            req.Name,
		MaxPlayers:      req.MaxPlayers,
		AverageDuration: req.AverageDuration,
		Category:        req.Category,
	})
	if err != nil {
		return fmt.Errorf("failed to add game: %w", err)
	}

	fmt.Fprintf(out, "Game added: %d %s\n", id, req.Name)
	return nil
}

func runAddMatch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-match", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.Int64("game", 0, "Game ID (required)")
	date := fs.String("date", "", "Match date, YYYY-MM-DD (default today)")
	winner := fs.String("winner", "", "Winner name")
	score := fs.String("score", "", "Winning score (blank is 0)")
	interactive := fs.Bool("interactive", false, "Prompt for each field")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *gameID <= 0 {
		return fmt.Errorf("game ID required")
	}

	values := map[string]string{
		core.FieldDate:         *date,
		core.FieldWinner:       *winner,
		core.FieldWinningScore: *score,
	}
	if *interactive {
		prompted, err := promptFields([]prompt{
			{core.FieldDate, "Date (YYYY-MM-DD)"},
			{core.FieldWinner, "Winner"},
			{core.FieldWinningScore, "Winning score"},
		})
		if err != nil {
			return err
		}
		values = prompted
	}

	req := core.CreateMatchRequest{
		Date:   strings.TrimSpace(values[core.FieldDate]),
		Winner: values[core.FieldWinner],
	}
	if req.Date == "" {
		req.Date = time.Now().Format(storage.DateLayout)
	}
	var err error
	if req.WinningScore, err = core.ParseCount(core.FieldWinningScore, values[core.FieldWinningScore]); err != nil {
		return err
	}
	if err := core.Validate(&req); err != nil {
		return err
	}
	played, err := time.Parse(storage.DateLayout, req.Date)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := store.Session()
	defer sess.Close()

	id, err := sess.InsertMatch(context.Background(), storage.MatchRecord{
		GameID:       *gameID,
		Date:         played,
		Winner:       req.Winner,
		WinningScore: req.WinningScore,
	})
	if errors.Is(err, storage.ErrGameNotFound) {
		return fmt.Errorf("game %d: %w", *gameID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to add match: %w", err)
	}

	fmt.Fprintf(out, "Match added: %d (game %d, %s, winner %s)\n", id, *gameID, req.Date, req.Winner)
	return nil
}

type prompt struct {
	field string
	label string
}

// promptFields reads one line per field from the terminal
func promptFields(prompts []prompt) (map[string]string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("-interactive requires a terminal")
	}

	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	values := make(map[string]string, len(prompts))
	for _, p := range prompts {
		rl.SetPrompt(p.label + ": ")
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("aborted")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p.label, err)
		}
		values[p.field] = line
	}
	return values, nil
}
