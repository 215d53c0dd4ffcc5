// Package ranking is the game-facing surface: submit a run, read the
// leaderboard and watch it change.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/void2610/online-type-game/internal/client/models"
	"github.com/void2610/online-type-game/internal/client/poller"
	"github.com/void2610/online-type-game/internal/client/query"
	"github.com/void2610/online-type-game/internal/logging"
)

const (
	Table       = "rankings"
	DefaultTopN = 10
)

// ErrInvalidEntry is returned before any request when a submission is
// malformed.
var ErrInvalidEntry = errors.New("invalid ranking entry")

type Service struct {
	rows     query.Builder[models.RankingEntry]
	logger   logging.Logger
	pollOpts poller.Options
}

// NewService reads and writes the rankings table through s. pollOpts are the
// defaults for Watch.
func NewService(s query.Sender, logger logging.Logger, pollOpts poller.Options) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		rows:     query.From[models.RankingEntry](s, Table),
		logger:   logger.With("component", "ranking"),
		pollOpts: pollOpts,
	}
}

// Submit records one finished run and returns the stored row.
func (s *Service) Submit(ctx context.Context, name string, score int, accuracy float64) (*models.RankingEntry, error) {
	row := models.RankingRow{PlayerName: strings.TrimSpace(name), Score: score, Accuracy: accuracy}
	if err := validate(row); err != nil {
		return nil, err
	}

	entry, err := s.rows.Insert(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("submit score: %w", err)
	}
	s.logger.Info(ctx, "score submitted", "player", row.PlayerName, "score", score)
	return entry, nil
}

// Top returns the n best scores, highest first. n <= 0 means DefaultTopN.
func (s *Service) Top(ctx context.Context, n int) ([]models.RankingEntry, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	entries, err := s.rows.Select("*").Order("score", false).Limit(n).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ranking: %w", err)
	}
	return entries, nil
}

// Watch returns a stopped poller over the whole table. The caller subscribes
// to its streams, then starts and eventually closes it.
func (s *Service) Watch() *poller.Poller[models.RankingEntry] {
	opts := s.pollOpts
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	return poller.New(s.rows.Select("*"), opts)
}

func validate(row models.RankingRow) error {
	switch {
	case row.PlayerName == "":
		return fmt.Errorf("%w: player name is empty", ErrInvalidEntry)
	case row.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvalidEntry, row.Score)
	case row.Accuracy < 0 || row.Accuracy > 1:
		return fmt.Errorf("%w: accuracy %v outside [0, 1]", ErrInvalidEntry, row.Accuracy)
	}
	return nil
}
