// Package scale maps dimension values to screen positions.
//
// A [Scale] is built once per (dataset load, dimension, range, inversion)
// and never mutated; it records the dataset generation it was built for so
// that consumers can reject scales from an older load.
//
// Continuous dimensions get a linear scale over the [min, max] extent of the
// present numeric values, built on go-moremath's scale.Linear, which also
// chooses the tick marks. Categorical dimensions get a point scale: the
// distinct present values in the dimension's order, evenly spaced with half
// a step of padding at each end. When a categorical domain has more values
// than the tick budget, only every ceil(n/budget)-th value is labelled, but
// every value keeps its position.
//
// Missing values, text on a continuous scale and unknown categories are not
// placed: [Scale.Map] reports ok=false and the caller skips the mark. An
// empty or single-valued continuous domain maps every present value to the
// middle of the range, so a scale never produces NaN.
//
// Inversion swaps the ends of the range and leaves the domain untouched.
package scale
