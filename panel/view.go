package panel

import "hoopcompare/stats"

type FieldView struct {
	Name        Field
	Label       string
	Placeholder string
	Value       string
	Committed   bool
	Open        bool
	Suggestions []string
}

type ResultView struct {
	Names       [2]string
	Seasons     [2]string
	SeasonRows  []stats.Row
	CareerNames [2]string
	CareerRows  []stats.Row
	SeasonRadar []stats.Axis
	CareerRadar []stats.Axis
}

// View is a snapshot of everything the page shows.
type View struct {
	Fields  []FieldView
	Ready   bool
	Loading bool
	Error   string
	Result  *ResultView
}

var fieldLabels = map[Field][2]string{
	Player1: {"Player 1", "Search Player 1"},
	Season1: {"Season 1", "Search Season 1 (e.g., 24-25)"},
	Player2: {"Player 2", "Search Player 2"},
	Season2: {"Season 2", "Search Season 2 (e.g., 24-25)"},
}

// View derives the page from the current state.
func (p *Panel) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{Loading: p.loading, Error: p.errMessage}
	for _, f := range Fields {
		v.Fields = append(v.Fields, p.fieldView(f))
	}
	_, v.Ready = p.request()

	if c := p.result; c != nil {
		v.Result = &ResultView{
			Names:       [2]string{c.Season[0].PlayerName, c.Season[1].PlayerName},
			Seasons:     c.Seasons,
			SeasonRows:  stats.SeasonTable(c.Season[0], c.Season[1]),
			CareerNames: [2]string{c.Career[0].PlayerName, c.Career[1].PlayerName},
			CareerRows:  stats.CareerTable(c.Career[0], c.Career[1]),
			SeasonRadar: stats.SeasonRadar(c.Season[0], c.Season[1]),
			CareerRadar: stats.CareerRadar(c.Career[0], c.Career[1]),
		}
	}
	return v
}

// FieldView returns one box.
func (p *Panel) FieldView(f Field) (FieldView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.inputs[f]; !ok {
		return FieldView{}, ErrUnknownField
	}
	return p.fieldView(f), nil
}

func (p *Panel) fieldView(f Field) FieldView {
	in := p.inputs[f]
	labels := fieldLabels[f]
	return FieldView{
		Name:        f,
		Label:       labels[0],
		Placeholder: labels[1],
		Value:       in.Text,
		Committed:   in.Committed(),
		Open:        in.Open(),
		Suggestions: in.Suggestions(p.source(f)),
	}
}
