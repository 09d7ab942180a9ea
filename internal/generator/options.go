package generator

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxChars is the size threshold beyond which a combined document is
// refused. Rendered text past this point is routinely unrenderable by
// Mermaid viewers; callers split per unit instead.
const DefaultMaxChars = 50000

// ErrTooLarge signals that the rendered text would exceed the size
// threshold. The renderer stays pure; splitting is the caller's decision.
var ErrTooLarge = errors.New("rendered diagram exceeds size limit")

// Direction is the Mermaid diagram layout direction.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
)

// ParseDirection validates a direction string, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(s)) {
	case DirectionTB:
		return DirectionTB, nil
	case DirectionBT:
		return DirectionBT, nil
	case DirectionLR:
		return DirectionLR, nil
	case DirectionRL:
		return DirectionRL, nil
	default:
		return "", fmt.Errorf("invalid direction: %s (expected TB, BT, LR, or RL)", s)
	}
}

// Format selects the output envelope.
type Format string

const (
	// FormatMD wraps the diagram in a fenced ```mermaid Markdown block.
	FormatMD Format = "md"
	// FormatMMD emits raw Mermaid, suitable for .mmd files.
	FormatMMD Format = "mmd"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatMD:
		return FormatMD, nil
	case FormatMMD:
		return FormatMMD, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (expected md or mmd)", s)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatMMD {
		return "mmd"
	}
	return "md"
}

// Options holds rendering options, validated by the caller.
type Options struct {
	Title       string
	Direction   Direction
	HidePrivate bool
	Format      Format
	MaxChars    int
}

func (o Options) maxChars() int {
	if o.MaxChars > 0 {
		return o.MaxChars
	}
	return DefaultMaxChars
}

func (o Options) direction() Direction {
	if o.Direction == "" {
		return DirectionTB
	}
	return o.Direction
}
