package editor

import "metromaps/internal/domain"

// Alternative describes an applied CreateAlternativeService
type Alternative struct {
	Line *domain.Line
	From *domain.Station
	To   *domain.Station
}

// CreateAlternativeService adds a two-stop line from a to b, named after the
// replacement lines already in the model. Nothing happens unless a and b are
// two distinct stations.
func CreateAlternativeService(model *domain.ModelData, a, b *domain.Station) *Alternative {
	if model == nil || a == nil || b == nil || a == b {
		return nil
	}

	line := domain.NewLine(NextLineID(model), nextNumberedName(model), ReplacementColor, false)
	model.Link(line, a)
	model.Link(line, b)
	model.AddLine(line)

	return &Alternative{Line: line, From: a, To: b}
}
