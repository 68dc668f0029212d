package editor

import "metromaps/internal/domain"

// Replacement describes an applied CreateReplacementService
type Replacement struct {
	// Line is the replacement line covering the segment
	Line *domain.Line

	// Segment is the selected stations in the order of the first line
	Segment []*domain.Station

	// Residuals are the pieces of the original lines left on either side of
	// the segment, in creation order.
	Residuals []*domain.Line

	// Removed are the original lines, no longer part of the model
	Removed []*domain.Line
}

// cut locates the segment on one line
type cut struct {
	lo, hi int

	// flipped is set when the line runs through the segment against the
	// order of the first line.
	flipped bool
}

// CreateReplacementService replaces the consecutive run of stations on
// lines with a replacement line. Each line is split around the run: a run
// ending at one of the line's terminals leaves one residual line, an
// interior run leaves two. The replacement line is minted once, from the
// first line, and the original lines are removed from the model.
//
// The selection may be given in either direction. Nothing happens unless
// every station lies on every line, the stations form a consecutive run on
// the first line, and the run does not span any line from terminal to
// terminal.
func CreateReplacementService(model *domain.ModelData, stations []*domain.Station, lines []*domain.Line) *Replacement {
	if model == nil || hasDuplicateLines(lines) {
		return nil
	}
	// lines may alias model.Lines, which is rewritten below
	lines = append([]*domain.Line(nil), lines...)

	segment := arrange(stations, lines)
	if len(segment) == 0 {
		return nil
	}
	first, last := segment[0], segment[len(segment)-1]
	if !consecutive(segment, stations) || spansTerminals(segment, lines) || first == last {
		return nil
	}

	cuts := make([]cut, len(lines))
	for i, line := range lines {
		cuts[i] = locate(line, first, last)
		if cuts[i].lo == cuts[i].hi {
			return nil
		}
	}

	reversed := selectionReversed(stations, first, last)
	result := &Replacement{Segment: segment}

	for i, line := range lines {
		c := cuts[i]
		oneTerminal := line.IsTerminal(first) || line.IsTerminal(last)
		lowTerminal := oneTerminal && line.IsTerminal(line.Stops[c.lo].Station)

		if oneTerminal {
			residual := residualAtTerminal(model, line, c, lowTerminal)
			model.AddLine(residual)
			result.Residuals = append(result.Residuals, residual)
		} else {
			// the -1/-2 suffixes follow the user's selection, seen from this line
			flip := reversed != c.flipped

			head := residualPiece(model, line, splitName(line.Name, true, flip), 0, c.lo)
			model.AddLine(head)
			tail := residualPiece(model, line, splitName(line.Name, false, flip), c.hi, len(line.Stops)-1)
			model.AddLine(tail)
			result.Residuals = append(result.Residuals, head, tail)
		}

		if i == 0 {
			result.Line = replacementLine(model, lines, line, c, oneTerminal, lowTerminal)
			model.AddLine(result.Line)
		}
	}

	removeOriginals(model, lines)
	result.Removed = append([]*domain.Line(nil), lines...)
	return result
}

// arrange returns the selected stations in the order of the first line,
// starting at the selected stop with the lowest index. It returns nil when
// the selection is too short or a station is missing from any line.
func arrange(stations []*domain.Station, lines []*domain.Line) []*domain.Station {
	if len(stations) < 2 || len(lines) == 0 || !allStationsOnLines(stations, lines) {
		return nil
	}

	ref := lines[0].Stops
	start := len(ref) - 1
	for _, station := range stations {
		if i := domain.FindStop(ref, station.Name); i < start {
			start = i
		}
	}
	if start+len(stations) > len(ref) {
		return nil
	}

	segment := make([]*domain.Station, 0, len(stations))
	for _, stop := range ref[start : start+len(stations)] {
		segment = append(segment, stop.Station)
	}
	return segment
}

func allStationsOnLines(stations []*domain.Station, lines []*domain.Line) bool {
	for _, line := range lines {
		for _, station := range stations {
			if station == nil || domain.FindStop(line.Stops, station.Name) == -1 {
				return false
			}
		}
	}
	return true
}

// consecutive reports whether every arranged station was selected
func consecutive(segment, stations []*domain.Station) bool {
	for _, station := range segment {
		if domain.FindStation(stations, station.Name) == nil {
			return false
		}
	}
	return true
}

// spansTerminals reports whether the segment runs from one terminal to the
// other on any of the lines
func spansTerminals(segment []*domain.Station, lines []*domain.Line) bool {
	first, last := segment[0], segment[len(segment)-1]
	for _, line := range lines {
		head, tail := line.First().Station, line.Last().Station
		if (head == first && tail == last) || (head == last && tail == first) {
			return true
		}
	}
	return false
}

// selectionReversed reports whether the user selected the segment against
// the order of the first line
func selectionReversed(stations []*domain.Station, first, last *domain.Station) bool {
	firstIndex, lastIndex := -1, -1
	for i, station := range stations {
		if station.Name == first.Name {
			firstIndex = i
		} else if station.Name == last.Name {
			lastIndex = i
		}
	}
	return firstIndex > lastIndex
}

func hasDuplicateLines(lines []*domain.Line) bool {
	seen := make(map[*domain.Line]struct{}, len(lines))
	for _, line := range lines {
		if line == nil {
			return true
		}
		if _, ok := seen[line]; ok {
			return true
		}
		seen[line] = struct{}{}
	}
	return false
}

func locate(line *domain.Line, first, last *domain.Station) cut {
	p := domain.FindStop(line.Stops, first.Name)
	s := domain.FindStop(line.Stops, last.Name)
	if p > s {
		return cut{lo: s, hi: p, flipped: true}
	}
	return cut{lo: p, hi: s}
}

// residualAtTerminal keeps the part of line on the far side of the segment
// from the terminal. The residual keeps the original name.
func residualAtTerminal(model *domain.ModelData, line *domain.Line, c cut, lowTerminal bool) *domain.Line {
	if lowTerminal {
		return residualPiece(model, line, line.Name, c.hi, len(line.Stops)-1)
	}
	return residualPiece(model, line, line.Name, 0, c.lo)
}

// residualPiece moves the stops from..to (inclusive) of line onto a new line
func residualPiece(model *domain.ModelData, line *domain.Line, name string, from, to int) *domain.Line {
	piece := domain.NewLine(NextLineID(model), name, line.Color, false)
	for _, stop := range line.Stops[from : to+1] {
		piece.Adopt(stop)
	}
	return piece
}

// replacementLine mints the line covering the segment c of line. An endpoint
// that is a terminal of line keeps its stop, which moves to the replacement;
// other endpoints get a fresh stop since the residual keeps the original one.
func replacementLine(model *domain.ModelData, lines []*domain.Line, line *domain.Line, c cut, oneTerminal, lowTerminal bool) *domain.Line {
	replacement := domain.NewLine(NextLineID(model), ReplacementLineName(model, lines, line), ReplacementColor, false)

	if oneTerminal && lowTerminal {
		replacement.Adopt(line.Stops[c.lo])
	} else {
		replacement.Adopt(copyStop(line.Stops[c.lo]))
	}

	for _, stop := range line.Stops[c.lo+1 : c.hi] {
		replacement.Adopt(stop)
	}

	if oneTerminal && !lowTerminal {
		replacement.Adopt(line.Stops[c.hi])
	} else {
		replacement.Adopt(copyStop(line.Stops[c.hi]))
	}

	return replacement
}

// copyStop creates a detached stop at the same station and location as stop
func copyStop(stop *domain.Stop) *domain.Stop {
	fresh := domain.NewStop(stop.Station, nil)
	if stop.Location != nil {
		fresh.SetLocation(*stop.Location)
	}
	return fresh
}

// removeOriginals drops lines from the model and detaches the stops that
// were not moved to a residual or replacement line.
func removeOriginals(model *domain.ModelData, lines []*domain.Line) {
	for _, line := range lines {
		for _, stop := range line.Stops {
			if stop.Line == line && stop.Station != nil {
				stop.Station.RemoveStop(stop)
			}
		}
		model.RemoveLine(line)
	}
}
