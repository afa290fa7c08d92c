// Package export serializes merged mesh buffers to interchange formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/phyllo/pkg/mesh"
)

// Export errors.
var (
	ErrNilBuffer     = errors.New("nil buffer")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Exporter writes a buffer to w.
type Exporter interface {
	Export(w io.Writer, b *mesh.Buffer) error
}

// Format names an export format.
type Format string

const (
	FormatOBJ  Format = "obj"
	FormatJSON Format = "json"
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat parses a format name (case-insensitive).
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatOBJ, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// New returns an exporter for f with material names taken from slotNames.
func New(f Format, slotNames []string) (Exporter, error) {
	switch f {
	case FormatOBJ:
		return &OBJ{SlotNames: slotNames, UVs: true}, nil
	case FormatJSON:
		return &JSON{SlotNames: slotNames}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// slotName returns the material name for slot.
func slotName(names []string, slot int) string {
	if slot >= 0 && slot < len(names) && names[slot] != "" {
		return names[slot]
	}
	return fmt.Sprintf("slot%d", slot)
}

func check(b *mesh.Buffer) error {
	if b == nil {
		return ErrNilBuffer
	}
	return b.Validate()
}
