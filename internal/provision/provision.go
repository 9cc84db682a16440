// Package provision fills the dashboard's tag selectors from the tag
// catalog and owns the page form state (default dates, alert banners).
package provision

import (
	"context"
	"log"

	"kitreport/internal/kit"
	"kitreport/pkg/models"
)

// TargetNames are the dashboard selectors, in render order. Each one
// receives its own full copy of the catalog's tag list.
var TargetNames = []string{kit.TargetFacebook, kit.TargetCreator, kit.TargetSparkloop}

// SelectionTarget is a single-choice control being provisioned.
// Select reports whether the value was present among the options;
// unknown values leave the selection untouched.
type SelectionTarget interface {
	ClearOptions()
	AddOption(value, label string)
	Select(value string) bool
}

// CatalogSource produces one fresh TagCatalog per call.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) (*models.TagCatalog, error)
}

type Provisioner struct {
	Source  CatalogSource
	Targets map[string]SelectionTarget
	Logger  *log.Logger
}

func NewProvisioner(source CatalogSource, targets map[string]SelectionTarget) *Provisioner {
	return &Provisioner{Source: source, Targets: targets, Logger: log.Default()}
}

// LoadAndPopulate fetches the catalog once and distributes it: each
// target is cleared, given a placeholder option, then one option per
// tag in catalog order (value = stringified id, label = name).
// Afterwards, targets with a non-null suggested id that exists in the
// catalog get that id selected. A fetch failure is logged and leaves
// every target exactly as it was.
func (p *Provisioner) LoadAndPopulate(ctx context.Context) error {
	catalog, err := p.Source.FetchCatalog(ctx)
	if err != nil {
		p.logf("[provision] tag catalog fetch failed: %v", err)
		return err
	}

	for _, name := range TargetNames {
		target, ok := p.Targets[name]
		if !ok {
			continue
		}
		target.ClearOptions()
		target.AddOption("", "")
		for _, tag := range catalog.AllTags {
			target.AddOption(tag.ID.String(), tag.Name)
		}
	}

	for _, name := range TargetNames {
		target, ok := p.Targets[name]
		if !ok {
			continue
		}
		id := catalog.Suggested[name]
		if id == nil {
			continue
		}
		target.Select(id.String())
	}

	return nil
}

func (p *Provisioner) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// Option is one entry of a SelectBox.
type Option struct {
	Value string
	Label string
}

// SelectBox is the server-side SelectionTarget rendered into the
// dashboard template.
type SelectBox struct {
	Name     string
	Options  []Option
	Selected string
}

func NewSelectBox(name string) *SelectBox {
	return &SelectBox{Name: name}
}

func (s *SelectBox) ClearOptions() {
	s.Options = s.Options[:0]
	s.Selected = ""
}

func (s *SelectBox) AddOption(value, label string) {
	s.Options = append(s.Options, Option{Value: value, Label: label})
}

// Select sets the current value if it is one of the options.
func (s *SelectBox) Select(value string) bool {
	for _, opt := range s.Options {
		if opt.Value == value {
			s.Selected = value
			return true
		}
	}
	return false
}

// Labels returns the option labels in order.
func (s *SelectBox) Labels() []string {
	out := make([]string, 0, len(s.Options))
	for _, opt := range s.Options {
		out = append(out, opt.Label)
	}
	return out
}

// NewTargets builds the three dashboard select boxes keyed by target
// name.
func NewTargets() map[string]*SelectBox {
	boxes := make(map[string]*SelectBox, len(TargetNames))
	for _, name := range TargetNames {
		boxes[name] = NewSelectBox(name + "_tag")
	}
	return boxes
}

// AsSelectionTargets adapts the concrete boxes to the interface map
// the Provisioner wants.
func AsSelectionTargets(boxes map[string]*SelectBox) map[string]SelectionTarget {
	targets := make(map[string]SelectionTarget, len(boxes))
	for name, box := range boxes {
		targets[name] = box
	}
	return targets
}
