package web

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"hoopcompare/autocomplete"
	"hoopcompare/chart"
	"hoopcompare/logger"
	"hoopcompare/panel"
	"hoopcompare/stats"
	"hoopcompare/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// IncompleteHint is shown when compare is pressed before all four boxes
// hold a picked suggestion.
const IncompleteHint = "Pick both players and both seasons from the suggestions to compare."

type legendEntry struct {
	Name  string
	Color template.CSS
}

type resultPage struct {
	Names        [2]string
	Seasons      [2]string
	CareerNames  [2]string
	SeasonRows   []stats.Row
	CareerRows   []stats.Row
	SeasonChart  template.HTML
	CareerChart  template.HTML
	SeasonLegend []legendEntry
	CareerLegend []legendEntry
}

type page struct {
	Fields  []panel.FieldView
	Loading bool
	Error   string
	Hint    string
	Result  *resultPage
}

func newPage(v panel.View) (*page, error) {
	p := &page{Fields: v.Fields, Loading: v.Loading, Error: v.Error}
	if v.Result == nil {
		return p, nil
	}
	r := v.Result
	seasonChart, err := chart.Radar(r.SeasonRadar, chart.SeasonPalette)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	careerChart, err := chart.Radar(r.CareerRadar, chart.CareerPalette)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	p.Result = &resultPage{
		Names:        r.Names,
		Seasons:      r.Seasons,
		CareerNames:  r.CareerNames,
		SeasonRows:   r.SeasonRows,
		CareerRows:   r.CareerRows,
		SeasonChart:  seasonChart,
		CareerChart:  careerChart,
		SeasonLegend: legend(r.Names, chart.SeasonPalette),
		CareerLegend: legend(r.CareerNames, chart.CareerPalette),
	}
	return p, nil
}

func legend(names [2]string, palette chart.Palette) []legendEntry {
	return []legendEntry{
		{Name: names[0], Color: template.CSS(palette[0])},
		{Name: names[1], Color: template.CSS(palette[1])},
	}
}

type Server struct {
	sessions *Sessions
	ttl      time.Duration
	log      *zap.SugaredLogger
}

// NewServer wires the panel routes onto a new echo instance. Session cookies
// live as long as an idle session does.
func NewServer(sessions *Sessions, ttl time.Duration, log *zap.SugaredLogger) *echo.Echo {
	s := &Server{sessions: sessions, ttl: ttl, log: log}

	e := echo.New()
	e.HideBanner = true
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Renderer = NewTemplates()

	e.GET("/", s.index)
	e.GET("/state", s.withPanel(s.state))
	e.POST("/fields/:field", s.withPanel(s.editField))
	e.POST("/fields/:field/select", s.withPanel(s.selectField))
	e.POST("/compare", s.withPanel(s.compare))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func (s *Server) setCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl / time.Second),
	})
}

func sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

type panelHandler func(c echo.Context, p *panel.Panel) error

// withPanel resolves the visitor's panel. Only the index page starts a
// session; a request for a missing or evicted one reloads the page.
func (s *Server) withPanel(h panelHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := sessionID(c)
		p, ok := s.sessions.Lookup(id)
		if !ok {
			c.Response().Header().Set("HX-Redirect", "/")
			return c.NoContent(http.StatusOK)
		}
		s.setCookie(c, id)
		return h(c, p)
	}
}

func (s *Server) index(c echo.Context) error {
	p, id, _ := s.sessions.Get(sessionID(c))
	s.setCookie(c, id)
	pg, err := newPage(p.View())
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return c.Render(http.StatusOK, "index", pg)
}

func (s *Server) state(c echo.Context, p *panel.Panel) error {
	pg, err := newPage(p.View())
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return c.Render(http.StatusOK, "state", pg)
}

func (s *Server) field(c echo.Context) (panel.Field, error) {
	f, err := panel.ParseField(c.Param("field"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return f, nil
}

func (s *Server) editField(c echo.Context, p *panel.Panel) error {
	f, err := s.field(c)
	if err != nil {
		return err
	}
	if err := p.Edit(f, c.FormValue("value")); err != nil {
		return utils.ErrorWithTrace(err)
	}
	fv, err := p.FieldView(f)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return c.Render(http.StatusOK, "suggestions", fv)
}

func (s *Server) selectField(c echo.Context, p *panel.Panel) error {
	f, err := s.field(c)
	if err != nil {
		return err
	}
	if err := p.Select(f, c.FormValue("value")); err != nil {
		if errors.Is(err, autocomplete.ErrNotSuggested) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return utils.ErrorWithTrace(err)
	}
	fv, err := p.FieldView(f)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	return c.Render(http.StatusOK, "field", fv)
}

func (s *Server) compare(c echo.Context, p *panel.Panel) error {
	ran := p.Compare(c.Request().Context())
	v := p.View()
	pg, err := newPage(v)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	if !ran {
		s.log.Debugw("compare skipped", "ready", v.Ready, "loading", v.Loading)
		if v.Loading {
			// another request is comparing; poll until it lands
			c.Response().Header().Set("HX-Retarget", "#panel-state")
			c.Response().Header().Set("HX-Reswap", "outerHTML")
			return c.Render(http.StatusOK, "state", pg)
		}
		if !v.Ready {
			pg.Hint = IncompleteHint
		}
	}
	return c.Render(http.StatusOK, "results", pg)
}
