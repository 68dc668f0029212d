package editor

import (
	"strconv"
	"strings"

	"metromaps/internal/domain"
)

// ReplacementColor is the colour of replacement and alternative lines
const ReplacementColor = "#009EE3"

// replacementPrefix marks lines minted by this package
const replacementPrefix = "P"

// NextLineID returns one more than the highest line id in the model, or 1
// for a model without lines.
func NextLineID(model *domain.ModelData) int {
	maxID := 0
	for _, line := range model.Lines {
		if line.ID > maxID {
			maxID = line.ID
		}
	}
	return maxID + 1
}

// countReplacementLines counts the lines whose name starts with "P"
func countReplacementLines(model *domain.ModelData) int {
	count := 0
	for _, line := range model.Lines {
		if strings.HasPrefix(line.Name, replacementPrefix) {
			count++
		}
	}
	return count
}

// nextNumberedName returns "P-<n+1>" for n existing replacement lines
func nextNumberedName(model *domain.ModelData) string {
	return replacementPrefix + "-" + strconv.Itoa(countReplacementLines(model)+1)
}

// ReplacementLineName names the replacement for line. A replacement of a
// single line is called "P<name>"; one shared by several lines is numbered
// "P-<n>" after the replacement lines already in the model.
func ReplacementLineName(model *domain.ModelData, lines []*domain.Line, line *domain.Line) string {
	if len(lines) > 1 {
		return nextNumberedName(model)
	}
	return replacementPrefix + line.Name
}

// splitName names one residual half of an interior split. The half adjacent
// to the first selected station gets "-1", the other "-2".
func splitName(name string, firstHalf, reversed bool) string {
	if firstHalf != reversed {
		return name + "-1"
	}
	return name + "-2"
}
