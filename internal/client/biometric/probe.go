package biometric

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/logging"
)

type Modality string

const (
	ModalityFingerprint Modality = "fingerprint"
	ModalityFace        Modality = "face"
	ModalityIris        Modality = "iris"
)

// GenericDisplayName is used when the platform names no modality.
const GenericDisplayName = "Biometric Authentication"

func (m Modality) DisplayName() string {
	switch m {
	case ModalityFingerprint:
		return "Fingerprint"
	case ModalityFace:
		return "Face ID"
	case ModalityIris:
		return "Iris"
	default:
		return string(m)
	}
}

// parseModality accepts the spellings platforms use in practice.
func parseModality(s string) (Modality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fingerprint", "touch_id", "touchid":
		return ModalityFingerprint, true
	case "face", "facial_recognition", "face_id", "faceid":
		return ModalityFace, true
	case "iris":
		return ModalityIris, true
	default:
		return "", false
	}
}

// Availability is the result of a capability probe.
type Availability struct {
	HardwarePresent bool
	Enrolled        bool
	Available       bool
}

// Probe answers "can biometric login be offered at all". Platform errors
// are logged and read as "no"; they never reach the caller.
type Probe struct {
	hw  Hardware
	log logging.Logger
}

func NewProbe(hw Hardware, log logging.Logger) *Probe {
	if log == nil {
		log = logging.Nop()
	}
	return &Probe{hw: hw, log: log}
}

// query runs fn and turns a panic in the platform adapter into an error.
func query[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("platform query panicked: %v", r)
		}
	}()
	return fn()
}

func (p *Probe) Availability(ctx context.Context) Availability {
	if p.hw == nil {
		return Availability{}
	}

	hasHardware, err := query(func() (bool, error) { return p.hw.HasHardware(ctx) })
	if err != nil {
		p.log.Warn(ctx, "biometric hardware query failed", "error", err)
		return Availability{}
	}
	if !hasHardware {
		return Availability{}
	}

	enrolled, err := query(func() (bool, error) { return p.hw.IsEnrolled(ctx) })
	if err != nil {
		p.log.Warn(ctx, "biometric enrollment query failed", "error", err)
		return Availability{HardwarePresent: true}
	}

	return Availability{HardwarePresent: true, Enrolled: enrolled, Available: enrolled}
}

// Modalities returns the recognised modalities in platform order, without
// duplicates. An empty result is valid even when Available is true.
func (p *Probe) Modalities(ctx context.Context) []Modality {
	if p.hw == nil {
		return nil
	}

	raw, err := query(func() ([]string, error) { return p.hw.SupportedModalities(ctx) })
	if err != nil {
		p.log.Warn(ctx, "biometric modality query failed", "error", err)
		return nil
	}

	seen := make(map[Modality]struct{}, len(raw))
	out := make([]Modality, 0, len(raw))
	for _, s := range raw {
		m, ok := parseModality(s)
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (p *Probe) DisplayName(ctx context.Context) string {
	mods := p.Modalities(ctx)
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.DisplayName()
	}
	return JoinDisplayNames(names)
}

// JoinDisplayNames renders names as "A", "A or B" or "A, B, or C".
func JoinDisplayNames(names []string) string {
	switch len(names) {
	case 0:
		return GenericDisplayName
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
