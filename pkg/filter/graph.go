// Package filter builds and runs directed graphs of frame-processing stages.
package filter

import (
	"fmt"
	"strings"

	"github.com/user/chromakey/pkg/media"
)

// Graph is a set of stages connected by links. It is built with AddStage and
// Link, configured once, then driven with PushFrame and PullFrame.
type Graph struct {
	stages     []*Stage
	byName     map[string]*Stage
	links      []*Link
	configured bool
	freed      bool
}

// Stage is one instance of a Kind inside a graph.
type Stage struct {
	graph   *Graph
	name    string
	kind    *Kind
	args    string
	proc    processor
	inputs  []*Link
	outputs []*Link
}

// Link connects an output pad of one stage to an input pad of another.
type Link struct {
	Src    *Stage
	SrcPad int
	Dst    *Stage
	DstPad int

	// Props is set by Configure.
	Props LinkProps
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{byName: map[string]*Stage{}}
}

// Name returns the instance name of the stage.
func (s *Stage) Name() string { return s.name }

// Kind returns the stage kind.
func (s *Stage) Kind() *Kind { return s.kind }

// Args returns the parameter string the stage was created with.
func (s *Stage) Args() string { return s.args }

// Stages returns the stages in creation order.
func (g *Graph) Stages() []*Stage { return g.stages }

// Configured reports whether Configure has succeeded.
func (g *Graph) Configured() bool { return g.configured }

// AddStage instantiates a stage of the named kind, parsing args as
// "key=value" pairs separated by ':' or ';'.
func (g *Graph) AddStage(kind, name, args string) (*Stage, error) {
	if g.configured || g.freed {
		return nil, fmt.Errorf("%w: graph is already configured", media.ErrStageCreation)
	}
	k, ok := LookupKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage kind %q", media.ErrStageCreation, kind)
	}
	if name == "" {
		name = fmt.Sprintf("%s_%d", kind, len(g.stages))
	}
	if _, dup := g.byName[name]; dup {
		return nil, fmt.Errorf("%w: stage name %q already used", media.ErrStageCreation, name)
	}

	vals, err := parseOptions(k.Options, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q with args %q: %v", media.ErrStageCreation, kind, name, args, err)
	}
	proc, err := k.create(vals)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q with args %q: %v", media.ErrStageCreation, kind, name, args, err)
	}

	s := &Stage{
		graph:   g,
		name:    name,
		kind:    k,
		args:    args,
		proc:    proc,
		inputs:  make([]*Link, k.Inputs),
		outputs: make([]*Link, k.Outputs),
	}
	g.stages = append(g.stages, s)
	g.byName[name] = s
	return s, nil
}

// Link connects output pad srcPad of src to input pad dstPad of dst.
func (g *Graph) Link(src *Stage, srcPad int, dst *Stage, dstPad int) error {
	switch {
	case g.configured || g.freed:
		return fmt.Errorf("%w: graph is already configured", media.ErrLink)
	case src == nil || dst == nil:
		return fmt.Errorf("%w: nil stage", media.ErrLink)
	case src.graph != g || dst.graph != g:
		return fmt.Errorf("%w: stage belongs to another graph", media.ErrLink)
	case src == dst:
		return fmt.Errorf("%w: cannot link %q to itself", media.ErrLink, src.name)
	case srcPad < 0 || srcPad >= len(src.outputs):
		return fmt.Errorf("%w: %q has no output pad %d", media.ErrLink, src.name, srcPad)
	case dstPad < 0 || dstPad >= len(dst.inputs):
		return fmt.Errorf("%w: %q has no input pad %d", media.ErrLink, dst.name, dstPad)
	case src.outputs[srcPad] != nil:
		return fmt.Errorf("%w: output pad %d of %q is already connected", media.ErrLink, srcPad, src.name)
	case dst.inputs[dstPad] != nil:
		return fmt.Errorf("%w: input pad %d of %q is already connected", media.ErrLink, dstPad, dst.name)
	}

	l := &Link{Src: src, SrcPad: srcPad, Dst: dst, DstPad: dstPad}
	src.outputs[srcPad] = l
	dst.inputs[dstPad] = l
	g.links = append(g.links, l)
	return nil
}

// Configure validates the topology and negotiates formats on every link.
// It may only succeed once.
func (g *Graph) Configure() error {
	if g.configured || g.freed {
		return fmt.Errorf("%w: graph is already configured", media.ErrGraphConfig)
	}

	var sources, sinks int
	for _, s := range g.stages {
		for i, l := range s.inputs {
			if l == nil {
				return fmt.Errorf("%w: input pad %d of %q (%s) is not connected", media.ErrGraphConfig, i, s.name, s.kind.Name)
			}
		}
		for i, l := range s.outputs {
			if l == nil {
				return fmt.Errorf("%w: output pad %d of %q (%s) is not connected", media.ErrGraphConfig, i, s.name, s.kind.Name)
			}
		}
		if s.kind.Inputs == 0 {
			sources++
		}
		if s.kind.Outputs == 0 {
			sinks++
		}
	}
	if sources == 0 || sinks == 0 {
		return fmt.Errorf("%w: graph needs at least one source and one sink", media.ErrGraphConfig)
	}

	order, err := g.sorted()
	if err != nil {
		return err
	}

	for _, s := range order {
		in := make([]LinkProps, len(s.inputs))
		for i, l := range s.inputs {
			in[i] = l.Props
		}
		out, err := s.proc.configure(in)
		if err != nil {
			return fmt.Errorf("%w: %q (%s): %v", media.ErrGraphConfig, s.name, s.kind.Name, err)
		}
		for i, l := range s.outputs {
			l.Props = out[i]
		}
	}

	g.configured = true
	return nil
}

// sorted returns the stages in topological order.
func (g *Graph) sorted() ([]*Stage, error) {
	pending := make(map[*Stage]int, len(g.stages))
	var ready []*Stage
	for _, s := range g.stages {
		pending[s] = len(s.inputs)
		if len(s.inputs) == 0 {
			ready = append(ready, s)
		}
	}

	order := make([]*Stage, 0, len(g.stages))
	for len(ready) > 0 {
		s := ready[0]
		ready = ready[1:]
		order = append(order, s)
		for _, l := range s.outputs {
			pending[l.Dst]--
			if pending[l.Dst] == 0 {
				ready = append(ready, l.Dst)
			}
		}
	}
	if len(order) != len(g.stages) {
		return nil, fmt.Errorf("%w: graph contains a cycle", media.ErrGraphConfig)
	}
	return order, nil
}

// Dump returns a text description of the graph: stages, links and, once
// configured, the negotiated properties of each link.
func (g *Graph) Dump() string {
	var b strings.Builder
	for _, s := range g.stages {
		fmt.Fprintf(&b, "[%s] %s", s.name, s.kind.Name)
		if s.args != "" {
			fmt.Fprintf(&b, "=%s", s.args)
		}
		b.WriteByte('\n')
		for i, l := range s.inputs {
			if l == nil {
				fmt.Fprintf(&b, "    in%d <- (unconnected)\n", i)
				continue
			}
			fmt.Fprintf(&b, "    in%d <- [%s]:out%d\n", i, l.Src.name, l.SrcPad)
		}
		for i, l := range s.outputs {
			if l == nil {
				fmt.Fprintf(&b, "    out%d -> (unconnected)\n", i)
				continue
			}
			fmt.Fprintf(&b, "    out%d -> [%s]:in%d", i, l.Dst.name, l.DstPad)
			if g.configured {
				fmt.Fprintf(&b, " %s %dx%d tb:%s sar:%s", l.Props.Format, l.Props.Width, l.Props.Height,
					l.Props.TimeBase, l.Props.SampleAspectRatio)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Free releases every frame still queued in the graph. The graph cannot be
// used afterwards. It is safe to call more than once.
func (g *Graph) Free() {
	if g == nil || g.freed {
		return
	}
	g.freed = true
	for _, s := range g.stages {
		switch p := s.proc.(type) {
		case *bufferSource:
			p.free()
		case *bufferSink:
			p.free()
		}
	}
}
