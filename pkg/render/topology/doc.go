// Package topology draws how a dashboard is wired: the selection store,
// each view, and the dimensions each view encodes.
//
// # Usage
//
//	dot := topology.ToDOT(topology.FromDashboard(d), topology.Options{})
//	svg, err := topology.RenderSVG(dot)
//
// The diagram is a debugging aid. Store edges point from each view's brush to
// the store and from the store back to every subscribed view; channel edges
// link views to the dimensions they use, labelled with the channel. With
// Options.Detailed, dimension nodes list their kind and categorical order.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package topology
