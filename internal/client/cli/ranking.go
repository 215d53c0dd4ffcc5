package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/void2610/online-type-game/internal/client/models"
)

// Submit: submit <name> <score> <accuracy>
func (a *App) Submit(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: submit <name> <score> <accuracy>", errUsage)
	}
	score, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: score must be an integer", errUsage)
	}
	accuracy, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("%w: accuracy must be a number between 0 and 1", errUsage)
	}

	e, err := a.client.Ranking.Submit(ctx, args[0], score, accuracy)
	if err != nil {
		return err
	}
	if e != nil {
		a.printf("Submitted #%d: %s %d\n", e.ID, e.PlayerName, e.Score)
	}
	return nil
}

// Top: top [n]
func (a *App) Top(ctx context.Context, args []string) error {
	n := 0
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: top [n]", errUsage)
		}
		n = v
	}

	entries, err := a.client.Ranking.Top(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No scores yet\n")
		return nil
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tSCORE\tACCURACY")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f%%\n", i+1, e.PlayerName, e.Score, e.Accuracy*100)
	}
	return tw.Flush()
}

func (a *App) Watch(ctx context.Context) error {
	if a.watcher != nil && a.watcher.Running() {
		a.printf("Already watching\n")
		return nil
	}
	if a.watcher != nil {
		a.watcher.Close()
	}

	w := a.client.Ranking.Watch()
	w.Inserts().Subscribe(func(e models.RankingEntry) {
		a.printf("[new] %s scored %d (%.1f%%)\n", e.PlayerName, e.Score, e.Accuracy*100)
	})
	w.Updates().Subscribe(func(e models.RankingEntry) {
		a.printf("[updated] %s now %d\n", e.PlayerName, e.Score)
	})
	w.Start(ctx)
	a.watcher = w
	a.printf("Watching the leaderboard, type 'unwatch' to stop\n")
	return nil
}

func (a *App) Unwatch(context.Context) error {
	if a.watcher == nil {
		a.printf("Not watching\n")
		return nil
	}
	a.watcher.Close()
	a.watcher = nil
	a.printf("Stopped watching\n")
	return nil
}
