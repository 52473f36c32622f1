// Package dashboard wires a dataset, a selection store and a set of linked
// views together.
//
// A [Dashboard] owns one [selection.Store] shared by all its views. Loading
// a dataset resolves its schema with the dashboard's classifier and hands it
// to every view, which cancel any drag and rebuild their scales before they
// reconcile. The current selection survives a reload; identities that no
// longer exist simply match nothing.
//
// Host input arrives as [Event] values passed to [Dashboard.Apply]. The
// events can also be read from an interaction script, one per line:
//
//	drag scatter 100 50 400 300
//	axis parallel Temperature 20 180
//	range parallel Temperature -5 10
//	clear scatter
//	config scatter x=Hour y=RentedBikeCount color=Seasons
//	resize parallel 1000 600
//
// A Dashboard is not safe for concurrent use. Hosts that receive input from
// several goroutines serialize calls themselves.
package dashboard
