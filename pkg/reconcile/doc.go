// Package reconcile keeps a view's marks in step with a changing dataset and
// selection.
//
// [Diff] is a keyed join: given the identities currently drawn and the
// identities that should be drawn, it splits them into Enter, Update and
// Exit. A [Scene] applies that join to its elements. Entering elements start
// from the scene origin at default opacity; surviving elements keep their
// previous position and opacity as the start of their transition; exiting
// elements are removed. After the join every element's opacity is set from
// the selection: highlighted when its identity is selected, default
// otherwise, and default for everything when the selection is empty.
//
// A scene only accepts placements computed from scales built for the same
// dataset generation as the records; anything else fails with
// [ErrStaleScale].
//
// [Scene.Restyle] and [Scene.Preview] only touch opacity. Restyle follows a
// store change; Preview shows a brush in progress and marks the scene as a
// preview until the next pass.
package reconcile
