package gridvirt

import (
	"fmt"
	"iter"
	"runtime/debug"

	"github.com/hnimtadd/gridvirt/config"
	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/group"
	"github.com/hnimtadd/gridvirt/grid/measure"
	"github.com/hnimtadd/gridvirt/grid/metrics"
	"github.com/hnimtadd/gridvirt/grid/source"
	"github.com/hnimtadd/gridvirt/grid/virt"
	"github.com/hnimtadd/gridvirt/logger"
)

// drainLimit bounds how many rounds of posted work Flush runs.
const drainLimit = 8

type Grid struct {
	// The virtualization state: slots, window, estimates and offsets. It is
	// renderer-agnostic and only knows heights.
	controller *virt.Controller

	// Turns key presses into controller calls.
	input *InputHandler

	logger logger.Logger
}

type Options struct {
	// Nil uses config.Default.
	Config   *config.Config
	Logger   logger.Logger
	Measurer measure.Measurer
	Columns  []column.Column
	Metrics  *metrics.Metrics
}

// NewGrid builds a grid without a source. Nothing is displayed until a
// source is set and the grid is resized.
func NewGrid(opts Options) *Grid {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop
	}

	copts := cfg.ControllerOptions()
	copts.Columns = column.NewSet(opts.Columns...)
	copts.Measurer = opts.Measurer
	copts.Metrics = opts.Metrics
	copts.Logger = logger.With(log, "component", "virt")
	c := virt.NewController(copts)

	return &Grid{
		controller: c,
		input: &InputHandler{
			controller: c,
			logger:     logger.With(log, "component", "input"),
		},
		logger: log,
	}
}

func (g *Grid) Controller() *virt.Controller { return g.controller }

func (g *Grid) SetSource(src source.DataSource) error {
	return g.controller.SetSource(src)
}

// Apply forwards a change notification. A broken internal invariant does
// not take the caller down: the grid is rebuilt from the source and the
// failure is returned.
func (g *Grid) Apply(ch source.Change) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("panic while applying change", "change", ch.Kind.String(), "panic", r,
				"stack", string(debug.Stack()))
			err = fmt.Errorf("gridvirt: apply %s: %v", ch.Kind, r)
			if src := g.controller.Source(); src != nil {
				if rerr := g.controller.SetSource(src); rerr != nil {
					g.logger.Error("resync after panic failed", "change", ch.Kind.String(), "error", rerr)
				}
			}
		}
	}()
	return g.controller.OnSourceChanged(ch)
}

// Resize lays the grid out for a new viewport, keeping the first
// displayed slot.
func (g *Grid) Resize(height float64, width int) {
	g.controller.SetViewportWidth(width)
	first := max(g.controller.FirstScrollingSlot(), 0)
	g.controller.UpdateDisplayedRows(first, height)
}

func (g *Grid) Scroll(delta float64) bool {
	return g.controller.UpdateScroll(delta)
}

func (g *Grid) ScrollTo(offset float64) bool {
	return g.controller.ScrollToVerticalOffset(offset)
}

func (g *Grid) HandleKey(k Key) bool {
	return g.input.HandleKey(k)
}

func (g *Grid) SetGroups(keys ...group.KeyFunc) {
	g.controller.SetGroups(keys...)
}

// Flush runs the work posted on the grid's dispatcher: pool cleanups and
// deferred key presses. It returns the number of callbacks run.
func (g *Grid) Flush() int {
	return g.controller.Dispatcher().Drain(drainLimit)
}

func (g *Grid) Snapshot() virt.Snapshot {
	return g.controller.Snapshot()
}

// Visible yields the displayed elements with the viewport position of
// their top edge. The first one may start above zero.
func (g *Grid) Visible() iter.Seq2[float64, element.Element] {
	return func(yield func(float64, element.Element) bool) {
		y := -g.controller.NegVerticalOffset()
		for e := range g.controller.DisplayedElements() {
			if !yield(y, e) {
				return
			}
			y += e.Common().Height()
		}
	}
}
