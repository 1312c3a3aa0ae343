package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hoopcompare/db"
	"hoopcompare/logger"
	"hoopcompare/stats"
	"hoopcompare/statsapi"
	"hoopcompare/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	MissingInfoError  = "Missing player or season info"
	OutOfRangeError   = "One or both seasons are out of range"
	CareerMaxAge      = 24 * time.Hour
	requestsPerSecond = 20
)

type Store interface {
	SelectPlayerNames(ctx context.Context) ([]string, error)
	SelectPlayerByName(ctx context.Context, name string) (*db.Player, error)
	SelectSeasonStats(ctx context.Context, playerID int) ([]db.SeasonStat, error)
	CareerFetchedAt(ctx context.Context, playerID int) (time.Time, bool, error)
}

type CareerScraper interface {
	ScrapeCareer(ctx context.Context, playerID int) error
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

type Server struct {
	store   Store
	scraper CareerScraper
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewServer wires the stats service routes onto a new echo instance.
func NewServer(store Store, scraper CareerScraper, log *zap.SugaredLogger) *echo.Echo {
	s := &Server{store: store, scraper: scraper, log: log, now: time.Now}
	return s.routes()
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{v: validator.New()}
	e.Use(logger.RequestLogger(s.log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: unlimited,
		Store:   middleware.NewRateLimiterMemoryStore(rate.Limit(requestsPerSecond)),
	}))

	e.GET("/players", s.players)
	e.POST("/compare", s.compare)
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

// unlimited reports whether a request skips the rate limiter. Only compares
// can reach stats.nba.com.
func unlimited(c echo.Context) bool {
	path := c.Request().URL.Path
	return c.Request().Method == http.MethodGet && (path == "/players" || path == "/healthz")
}

func (s *Server) players(c echo.Context) error {
	names, err := s.store.SelectPlayerNames(c.Request().Context())
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return c.JSON(http.StatusOK, names)
}

func (s *Server) compare(c echo.Context) error {
	var req statsapi.CompareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statsapi.CompareResponse{Error: MissingInfoError})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statsapi.CompareResponse{Error: MissingInfoError})
	}

	season1, ok1 := SeasonID(req.Season1)
	season2, ok2 := SeasonID(req.Season2)
	if !ok1 || !ok2 {
		return c.JSON(http.StatusBadRequest, statsapi.CompareResponse{Error: OutOfRangeError})
	}

	ctx := c.Request().Context()
	rows1, err := s.careerRows(ctx, req.Player1)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	rows2, err := s.careerRows(ctx, req.Player2)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}

	row1, found1 := seasonRow(rows1, season1)
	row2, found2 := seasonRow(rows2, season2)
	switch {
	case !found1 && !found2:
		return c.JSON(http.StatusOK, statsapi.CompareResponse{
			Error: fmt.Sprintf("Both %s and %s did not play in their selected seasons.", req.Player1, req.Player2),
		})
	case !found1:
		return c.JSON(http.StatusOK, statsapi.CompareResponse{
			Error: fmt.Sprintf("%s did not play in the %s season.", req.Player1, req.Season1),
		})
	case !found2:
		return c.JSON(http.StatusOK, statsapi.CompareResponse{
			Error: fmt.Sprintf("%s did not play in the %s season.", req.Player2, req.Season2),
		})
	}

	return c.JSON(http.StatusOK, statsapi.CompareResponse{
		Stats:  []stats.Record{seasonRecord(req.Player1, row1), seasonRecord(req.Player2, row2)},
		Career: []stats.Record{careerRecord(req.Player1, rows1), careerRecord(req.Player2, rows2)},
	})
}

// careerRows returns every stored season row of the named player, scraping
// them first when they are missing or older than CareerMaxAge. An unknown
// player has no rows.
func (s *Server) careerRows(ctx context.Context, name string) ([]db.SeasonStat, error) {
	p, err := s.store.SelectPlayerByName(ctx, name)
	if errors.Is(err, db.ErrPlayerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	fetchedAt, ok, err := s.store.CareerFetchedAt(ctx, p.ID)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if !ok || s.now().Sub(fetchedAt) > CareerMaxAge {
		if err := s.scraper.ScrapeCareer(ctx, p.ID); err != nil {
			if !ok {
				return nil, utils.ErrorWithTrace(err)
			}
			s.log.Warnw("serving stale career", "player", name, "fetched_at", fetchedAt, "error", err)
		}
	}

	rows, err := s.store.SelectSeasonStats(ctx, p.ID)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	return rows, nil
}
