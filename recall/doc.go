// Package recall scores neighbor tables against ground truth.
//
// CompareRecall is the classic 1-recall@k of the TEXMEX benchmarks: the
// fraction of queries whose true nearest neighbor appears anywhere in the
// predicted row. AtK is the set-overlap recall@k between the top k of both
// tables, scaled by the number of valid ids in the ground-truth row.
package recall
