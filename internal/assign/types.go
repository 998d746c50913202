// Package assign implements the pixel assignment optimizer: given a source
// palette and a target palette of equal size, find a permutation mapping
// target positions to source positions that minimizes the combined
// spatial/chromatic heuristic. Two solvers are provided — a randomized
// local-search ("genetic") solver and a deterministic greedy matcher
// ("optimal", a stand-in for a true Hungarian solver).
package assign

import (
	"github.com/san-kum/pixelmorph/internal/imagekernel"
)

// Algorithm selects which solver Solve dispatches to.
type Algorithm string

const (
	Genetic Algorithm = "genetic"
	Optimal Algorithm = "optimal"
)

// Settings configures one solve session. ID seeds the PRNG so that two
// sessions with identical (ID, source, target) produce identical results.
type Settings struct {
	ID                  string
	Name                string
	ProximityImportance int // 1..50
	Algorithm           Algorithm
	SideLen             int // 64..2048, step 64
	SourceCropScale     imagekernel.CropScale
	TargetCropScale     imagekernel.CropScale
}

// DefaultSettings mirrors the configuration options table: proximity
// importance 13, genetic algorithm, 256-pixel side.
func DefaultSettings() Settings {
	return Settings{
		ProximityImportance: 13,
		Algorithm:           Genetic,
		SideLen:             256,
		SourceCropScale:     imagekernel.DefaultCropScale(),
		TargetCropScale:     imagekernel.DefaultCropScale(),
	}
}

// MessageType tags the variants of the worker/session protocol.
type MessageType int

const (
	MsgProgress MessageType = iota
	MsgPreview
	MsgAssignmentsUpdate
	MsgDone
	MsgError
	MsgCancelled
)

// Result is the payload of a Done message: the cropped-and-scaled source
// (not the original) and the resulting permutation.
type Result struct {
	Source      imagekernel.Palette
	Side        int
	Assignments []int
}

// Message is the tagged-union response a solve session emits. Exactly one
// of Done, Error, or Cancelled is terminal per session.
type Message struct {
	Type MessageType

	Progress float64 // MsgProgress: value in [0, 1]

	PreviewSide int               // MsgPreview
	Preview     imagekernel.Palette // MsgPreview

	Assignments []int // MsgAssignmentsUpdate

	Result *Result // MsgDone

	Err error // MsgError
}
