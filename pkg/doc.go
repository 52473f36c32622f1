// Package pkg provides the core libraries for brushlink linked-view brushing.
//
// # Overview
//
// Brushlink shows one tabular dataset in two linked views, a scatterplot and
// a parallel-coordinates plot. Brushing records in either view commits a
// selection to a shared store, and every view highlights the selected
// records by identity. The pkg directory is organized into three areas:
//
//  1. Engine - [dataset], [dimension], [scale], [encoding], [reconcile],
//     [brush], [selection] and [view], coordinated by [dashboard]
//  2. Output - [render/sink] (SVG, JSON, PNG, PDF), [render/styles] and
//     [render/topology]
//  3. Infrastructure - [pipeline], [cache], [config], [session],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The data flow of one interaction:
//
//	dataset.Source
//	      ↓
//	dashboard.Load (classify dimensions, resolve scales, reconcile marks)
//	      ↓
//	pointer/axis events → brush → selection.Store.Commit
//	      ↓
//	every subscribed view restyles its marks
//	      ↓
//	view.Frame → sink → SVG/JSON/PNG/PDF
//
// # Quick Start
//
//	d, _ := dashboard.New()
//	_ = d.Load(ctx, dataset.FileSource{Path: "bikes.csv", Comma: ','})
//	_ = d.Apply(dashboard.AxisEvent{View: "parallel", Dim: "Temperature", From: 15, To: 25, Data: true})
//
//	v, _ := d.View("scatter")
//	svg := sink.RenderSVG(v.Frame())
//
// The engine is single-threaded and event-driven. Hosts that serve several
// clients, like the HTTP server, keep one dashboard per session and
// serialize its events.
package pkg
