// Package growth implements greedy local search over a MutableNodeSet.
package growth

import (
	"context"

	"github.com/dd0wney/cluso-complexes/pkg/nodeset"
	"github.com/dd0wney/cluso-complexes/pkg/quality"
)

// State of a growth process
type State int

const (
	Growing State = iota
	Terminated
)

// String returns the name of the state
func (s State) String() string {
	if s == Growing {
		return "GROWING"
	}
	return "TERMINATED"
}

// ActionKind identifies what a step did
type ActionKind int

const (
	Terminate ActionKind = iota
	Add
	Remove
)

// Action is the move chosen by one step.
type Action struct {
	Kind ActionKind
	Node int
	Gain float64
}

// DefaultMinGain is the smallest quality improvement treated as positive.
// Anything below it is rounding noise from the incremental affinities.
const DefaultMinGain = 1e-12

// Options configures a growth process.
type Options struct {
	KeepInitialSeeds bool    // seed members are never removed
	MinGain          float64 // gains at or below this terminate growth
	MaxSteps         int     // 0 means unlimited
}

// DefaultOptions returns the usual settings.
func DefaultOptions() Options {
	return Options{MinGain: DefaultMinGain}
}

// Process greedily adds or removes one node per step while quality improves.
// A Process is reusable across seeds and owned by a single goroutine.
type Process struct {
	set       *nodeset.MutableNodeSet
	quality   quality.Function
	opts      Options
	protected []bool
	seed      []int
	state     State
	steps     int
}

// NewProcess creates a process driving set under the given quality function.
func NewProcess(set *nodeset.MutableNodeSet, fn quality.Function, opts Options) *Process {
	if opts.MinGain <= 0 {
		opts.MinGain = DefaultMinGain
	}
	return &Process{
		set:       set,
		quality:   fn,
		opts:      opts,
		protected: make([]bool, set.Graph().NodeCount()),
		state:     Terminated,
	}
}

// Reset loads seed into the set and returns the process to GROWING.
func (p *Process) Reset(seed []int) error {
	for _, v := range p.seed {
		p.protected[v] = false
	}
	p.seed = p.seed[:0]

	if err := p.set.Reset(seed); err != nil {
		p.state = Terminated
		return err
	}
	if p.opts.KeepInitialSeeds {
		for _, v := range seed {
			p.protected[v] = true
			p.seed = append(p.seed, v)
		}
	}

	p.steps = 0
	p.state = Growing
	return nil
}

// Set returns the node set being grown
func (p *Process) Set() *nodeset.MutableNodeSet {
	return p.set
}

// State returns the current state
func (p *Process) State() State {
	return p.state
}

// Steps returns how many actions were applied since the last Reset
func (p *Process) Steps() int {
	return p.steps
}

// better reports whether a candidate beats the current best: larger gain wins,
// equal gains go to the lower node index.
func better(gain float64, node int, best Action) bool {
	if gain > best.Gain {
		return true
	}
	return gain == best.Gain && best.Kind != Terminate && node < best.Node
}

// SuggestAction evaluates every boundary node and every removable member and
// returns the move with the largest gain above MinGain, or Terminate.
func (p *Process) SuggestAction() Action {
	best := Action{Kind: Terminate, Node: -1, Gain: p.opts.MinGain}

	for _, v := range p.set.ExternalBoundaryNodes() {
		if gain := p.quality.AdditionAffinity(p.set, v); better(gain, v, best) {
			best = Action{Kind: Add, Node: v, Gain: gain}
		}
	}

	if p.set.Size() > 1 {
		for _, m := range p.set.Members() {
			if p.protected[m] {
				continue
			}
			if gain := p.quality.RemovalAffinity(p.set, m); better(gain, m, best) {
				best = Action{Kind: Remove, Node: m, Gain: gain}
			}
		}
	}

	if best.Kind == Terminate {
		best.Gain = 0
	}
	return best
}

// Step applies the best action and reports whether growth should continue.
func (p *Process) Step() bool {
	if p.state == Terminated {
		return false
	}
	if p.opts.MaxSteps > 0 && p.steps >= p.opts.MaxSteps {
		p.state = Terminated
		return false
	}

	action := p.SuggestAction()
	switch action.Kind {
	case Add:
		p.set.Add(action.Node)
	case Remove:
		p.set.Remove(action.Node)
	default:
		p.state = Terminated
		return false
	}
	p.steps++
	return true
}

// Run steps until termination or until ctx is done. Cancellation is a cooperative
// stop: the set is left as it was after the last completed step.
func (p *Process) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if !p.Step() {
			return
		}
	}
}
