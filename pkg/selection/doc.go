// Package selection holds the set of highlighted records shared by all views.
//
// A [Selection] is an immutable set of record identities backed by a Roaring
// bitmap. The empty selection means nothing is highlighted, and every view
// then draws all of its marks at default opacity.
//
// The [Store] is the single source of truth. Brushes are its only writers:
// [Store.Commit] replaces the current selection (it never merges) and
// notifies every subscriber, the committing view included, with a [Change]
// naming the origin. Views use the origin only to decide whether to drop
// their own brush widget; the highlight itself is driven by the value.
//
// Matching is by identity alone. An identity that no longer exists in the
// current dataset simply matches nothing.
package selection
