package ui

import (
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultSegments is the number of segments in the hidden-input ring.
const DefaultSegments = 6

type indicatorPhase int

const (
	phaseAdd indicatorPhase = iota
	phaseDelete
)

// Indicator gives typing feedback for hidden input without revealing its
// length: each keystroke lights a random segment other than the lit one.
type Indicator struct {
	segments    int
	highlighted int // -1 when nothing is lit
	phase       indicatorPhase
	intn        func(int) int
}

// NewIndicator returns an unlit ring of segments.
func NewIndicator(segments int) Indicator {
	if segments < 1 {
		segments = DefaultSegments
	}
	return Indicator{
		segments:    segments,
		highlighted: -1,
		intn:        rand.IntN,
	}
}

// Add records an inserted character.
func (i Indicator) Add() Indicator {
	i.phase = phaseAdd
	i.highlighted = i.next()
	return i
}

// Delete records a removed character.
func (i Indicator) Delete() Indicator {
	i.phase = phaseDelete
	i.highlighted = i.next()
	return i
}

// Reset unlights the ring.
func (i Indicator) Reset() Indicator {
	i.highlighted = -1
	i.phase = phaseAdd
	return i
}

// Highlighted returns the lit segment, or -1.
func (i Indicator) Highlighted() int {
	return i.highlighted
}

func (i Indicator) next() int {
	if i.segments < 2 {
		return 0
	}
	n := 1 + i.intn(i.segments-1)
	if n == i.highlighted {
		return 0
	}
	return n
}

// View renders the ring as a row of segments.
func (i Indicator) View() string {
	lit := SuccessColor
	if i.phase == phaseDelete {
		lit = ErrorColor
	}
	on := lipgloss.NewStyle().Foreground(lit)
	off := lipgloss.NewStyle().Foreground(MutedColor)

	parts := make([]string, i.segments)
	for s := range i.segments {
		if s == i.highlighted {
			parts[s] = on.Render("●")
		} else {
			parts[s] = off.Render("○")
		}
	}
	return strings.Join(parts, " ")
}
