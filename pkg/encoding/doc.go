// Package encoding maps dimension values to mark color and size.
//
// Color: categorical dimensions use a fixed ten-color palette over their
// ordered values, cycling when there are more than ten; continuous
// dimensions interpolate a go-gg palette gradient (viridis by default) over
// the [min, max] extent of the present values. Missing values and values the
// scale does not know are drawn neutral gray.
//
// Size: a clamped linear map onto a radius range ([2, 6] by default).
// Categorical values get evenly spaced sizes in their order; missing values
// get the middle of the range.
package encoding
