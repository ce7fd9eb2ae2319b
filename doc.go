// Package vlist computes, for a scrollable list, the minimal contiguous range
// of rows that must be rendered at the current scroll position.
//
// The engine supports two sizing modes. In fixed mode every row has the same
// known height and the visible range is computed in constant time. In dynamic
// mode row heights are estimated up front and refined by measurement reports
// as rows are actually rendered; the visible range is found with a linear
// prefix scan over the estimated-or-measured heights.
//
// The engine never touches a UI. It attaches to a ScrollSource that feeds it
// scroll and resize notifications, and the embedding surface calls
// ComputeWindow to learn which rows to render and where to place them.
package vlist
