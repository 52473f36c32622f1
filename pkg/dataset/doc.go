// Package dataset holds the tabular records every view renders.
//
// A [Dataset] is an ordered list of field names plus immutable [Record]
// values. Each record carries a synthetic [Identity] assigned once by the
// [Builder] when the dataset is built. Identities are never reused within a
// dataset and are the only key used to match a record across views; field
// values never take part in matching.
//
// Cell values are dynamically typed: text that parses as a number becomes a
// [Number], an empty cell is [Missing], anything else is [Text].
//
// # Loading
//
// Datasets come from a [Source]. [FileSource] reads delimited text with a
// header row. Rows whose required fields are empty are dropped before
// identities are assigned, so identities are dense:
//
//	src := dataset.FileSource{Path: "data/SeoulBikeData.csv"}
//	ds, err := src.Load(ctx)
//
// Every build stamps the dataset with a process-wide unique
// [Dataset.Generation], which scales and scenes use to detect that they were
// built for an older load.
package dataset
