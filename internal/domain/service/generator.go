package service

import (
	"SignalDesk/internal/domain/models"
)

// Generator derives one family signal from a bar window. Implementations
// must be pure: no side effects, no mutation of the window, deterministic
// output for identical input.
type Generator interface {
	// Family returns the signal family name this generator produces.
	Family() string
	// Generate computes the signal for an ascending bar window.
	Generate(bars []models.Bar) (models.Signal, error)
}

// ConfidenceModel assigns a confidence score to a generator family.
// The default implementation returns fixed per-family constants; a
// data-driven model can replace it without touching the generators.
type ConfidenceModel interface {
	Confidence(family string) float64
}
