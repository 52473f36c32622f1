// Package brush turns pointer drags into selections.
//
// Both brushes share one state machine:
//
//	Idle ──Begin──▶ Dragging ──End──▶ Committed
//	  ▲               │  ▲              │
//	  │            Cancel└──Begin───────┤
//	  └──────────── Clear / Reset ◀─────┘
//
// While dragging, every Move evaluates the brush region against the view's
// current scales and shows the result on the brushing view only, through
// its [Target]. Nothing is written to the store until End, which commits
// exactly once. An End with a zero-area region (a click) clears instead.
//
// Clear commits the empty selection. Cancel abandons a drag without
// committing and restores the view to the store's selection. Reset drops
// the brush widget without committing; views call it when another view
// commits or when their axes change.
//
// [RectBrush] serves the scatterplot. [AxisBrush] serves parallel
// coordinates: each axis holds its own interval and the selection is the
// records inside every active interval.
package brush
