// Package editor implements the structural edits of the metro map editor.
//
// Three operations mutate a domain.ModelData in place:
//
//   - CloseStation removes a station from a set of lines and drops the
//     station from the model once it no longer has any stops.
//   - CreateAlternativeService adds a direct two-stop line between two
//     stations.
//   - CreateReplacementService cuts a consecutive segment out of one or more
//     lines, keeps the residual pieces as lines of their own and mints a
//     single replacement line covering the segment.
//
// Operations never fail loudly. When a precondition does not hold the model
// is left untouched and the operation returns nil; otherwise it returns a
// value describing what was created and removed.
//
// New lines get the next free id (highest line id + 1). Replacement and
// alternative lines are drawn in ReplacementColor.
//
// The package is not safe for concurrent use against the same model.
package editor
