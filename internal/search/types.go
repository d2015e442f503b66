package search

// OverfetchFactor is the multiplier applied before fusion: each side of
// the hybrid query fetches topk×K candidates before fusion narrows back
// down to topk.
const OverfetchFactor = 4

// DefaultTopK is used when a Query arrives with TopK <= 0.
const DefaultTopK = 10
