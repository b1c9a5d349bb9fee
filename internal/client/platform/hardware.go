package platform

import (
	"context"
	"slices"
)

// SimulatedHardware answers capability queries from fixed settings.
type SimulatedHardware struct {
	Present    bool
	Enrolled   bool
	Modalities []string
}

func (h *SimulatedHardware) HasHardware(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.Present, nil
}

func (h *SimulatedHardware) IsEnrolled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.Present && h.Enrolled, nil
}

func (h *SimulatedHardware) SupportedModalities(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !h.Present {
		return nil, nil
	}
	return slices.Clone(h.Modalities), nil
}
