package panel

import (
	"context"
	"errors"
	"sync"

	"hoopcompare/autocomplete"
	"hoopcompare/stats"
	"hoopcompare/statsapi"

	"go.uber.org/zap"
)

// GenericError is what the user sees when the comparison call itself fails.
const GenericError = "An error occurred while comparing players."

type Field string

const (
	Player1 Field = "player1"
	Season1 Field = "season1"
	Player2 Field = "player2"
	Season2 Field = "season2"
)

// Fields is the on-screen order of the search boxes.
var Fields = []Field{Player1, Season1, Player2, Season2}

var ErrUnknownField = errors.New("unknown field")

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

func (f Field) isPlayer() bool {
	return f == Player1 || f == Player2
}

// Fetcher is the remote stats service.
type Fetcher interface {
	PlayerLister
	Compare(ctx context.Context, req statsapi.CompareRequest) (*statsapi.CompareResponse, error)
}

// Comparison is the last successful result, in request order.
type Comparison struct {
	Season  [2]stats.Record
	Career  [2]stats.Record
	Seasons [2]string
}

// Panel is one visitor's comparison panel. All methods are safe for
// concurrent use; the lock is not held across network calls.
type Panel struct {
	mu      sync.Mutex
	fetcher Fetcher
	roster  *Roster
	log     *zap.SugaredLogger

	seasons []string
	inputs  map[Field]*autocomplete.Input

	loading    bool
	errMessage string
	result     *Comparison
}

func New(fetcher Fetcher, roster *Roster, log *zap.SugaredLogger) *Panel {
	inputs := make(map[Field]*autocomplete.Input, len(Fields))
	for _, f := range Fields {
		inputs[f] = &autocomplete.Input{}
	}
	return &Panel{
		fetcher: fetcher,
		roster:  roster,
		log:     log,
		seasons: stats.SeasonLabels(),
		inputs:  inputs,
	}
}

// Mount makes sure the shared player list is loaded. A failure is logged
// and leaves the list empty; the next mount tries again.
func (p *Panel) Mount(ctx context.Context) {
	p.roster.Load(ctx)
}

func (p *Panel) source(f Field) []string {
	if f.isPlayer() {
		return p.roster.Names()
	}
	return p.seasons
}

// Edit sets the text of a box, dropping its committed selection.
func (p *Panel) Edit(f Field, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, ok := p.inputs[f]
	if !ok {
		return ErrUnknownField
	}
	in.Edit(text)
	return nil
}

// Select commits one of the box's current suggestions.
func (p *Panel) Select(f Field, option string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, ok := p.inputs[f]
	if !ok {
		return ErrUnknownField
	}
	return in.Select(option, p.source(f))
}

// Compare runs one comparison. It does nothing and returns false unless all
// four boxes hold a committed selection and no comparison is in flight.
func (p *Panel) Compare(ctx context.Context) bool {
	p.mu.Lock()
	req, ready := p.request()
	if !ready || p.loading {
		p.mu.Unlock()
		return false
	}
	p.loading = true
	p.errMessage = ""
	p.mu.Unlock()

	resp, err := p.fetcher.Compare(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { p.loading = false }()

	switch {
	case err != nil:
		p.log.Errorw("error comparing players", "error", err,
			"player1", req.Player1, "player2", req.Player2)
		p.errMessage = GenericError
	case resp.Error != "":
		p.errMessage = resp.Error
		p.result = nil
	default:
		p.result = &Comparison{
			Season:  [2]stats.Record{resp.Stats[0], resp.Stats[1]},
			Career:  [2]stats.Record{resp.Career[0], resp.Career[1]},
			Seasons: [2]string{req.Season1, req.Season2},
		}
	}
	return true
}

func (p *Panel) request() (statsapi.CompareRequest, bool) {
	req := statsapi.CompareRequest{
		Player1: p.inputs[Player1].Selected,
		Player2: p.inputs[Player2].Selected,
		Season1: p.inputs[Season1].Selected,
		Season2: p.inputs[Season2].Selected,
	}
	ready := req.Player1 != "" && req.Player2 != "" && req.Season1 != "" && req.Season2 != ""
	return req, ready
}
