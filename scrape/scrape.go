package scrape

import (
	"context"
	"time"

	"hoopcompare/db"
	"hoopcompare/nba"
	"hoopcompare/utils"

	"go.uber.org/zap"
)

type Source interface {
	CommonAllPlayers(ctx context.Context) ([]nba.CommonAllPlayer, error)
	PlayerCareerStats(ctx context.Context, playerID int) ([]nba.SeasonTotals, error)
}

type Store interface {
	InsertPlayers(ctx context.Context, players []db.Player) error
	ReplaceSeasonStats(ctx context.Context, playerID int, rows []db.SeasonStat, fetchedAt time.Time) error
}

// Scraper copies data from stats.nba.com into the store.
type Scraper struct {
	source Source
	store  Store
	log    *zap.SugaredLogger
	now    func() time.Time
}

func New(source Source, store Store, log *zap.SugaredLogger) *Scraper {
	return &Scraper{source: source, store: store, log: log, now: time.Now}
}

// Daemon scrapes the player list at start and then every interval until ctx
// is done.
func (s *Scraper) Daemon(ctx context.Context, interval time.Duration) {
	if err := s.ScrapePlayers(ctx); err != nil {
		s.log.Errorw("scraping players", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScrapePlayers(ctx); err != nil {
				s.log.Errorw("scraping players", "error", err)
			}
		}
	}
}

func (s *Scraper) ScrapePlayers(ctx context.Context) error {
	s.log.Info("Scraping All Players")
	res, err := s.source.CommonAllPlayers(ctx)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	players := make([]db.Player, 0, len(res))
	for _, p := range res {
		players = append(players, db.Player{
			ID:       p.PersonID,
			FullName: p.DisplayFirstLast,
			FromYear: p.FromYear,
			ToYear:   p.ToYear,
		})
	}
	if err := s.store.InsertPlayers(ctx, players); err != nil {
		return utils.ErrorWithTrace(err)
	}
	s.log.Infow("Finished Scraping Players", "count", len(players))
	return nil
}

// ScrapeCareer replaces the stored season rows of one player.
func (s *Scraper) ScrapeCareer(ctx context.Context, playerID int) error {
	res, err := s.source.PlayerCareerStats(ctx, playerID)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	rows := make([]db.SeasonStat, 0, len(res))
	for _, t := range res {
		rows = append(rows, db.SeasonStat{
			PlayerID:         playerID,
			SeasonID:         t.SeasonID,
			TeamID:           t.TeamID,
			TeamAbbreviation: t.TeamAbbreviation,
			GP:               t.GP,
			MIN:              t.MIN,
			PTS:              t.PTS,
			REB:              t.REB,
			AST:              t.AST,
			STL:              t.STL,
			BLK:              t.BLK,
			FGM:              t.FGM,
			FGA:              t.FGA,
			FGPct:            t.FGPct,
			FG3M:             t.FG3M,
			FG3A:             t.FG3A,
			FG3Pct:           t.FG3Pct,
			FTM:              t.FTM,
			FTA:              t.FTA,
			FTPct:            t.FTPct,
		})
	}
	if err := s.store.ReplaceSeasonStats(ctx, playerID, rows, s.now()); err != nil {
		return utils.ErrorWithTrace(err)
	}
	s.log.Debugw("scraped career", "player_id", playerID, "seasons", len(rows))
	return nil
}
