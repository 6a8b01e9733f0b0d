package recall

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Integer is the set of neighbor id types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CompareRecall returns the fraction of rows i for which gt[i][0] occurs in pred[i].
// Order within a prediction row does not matter; negative ids never match.
func CompareRecall[ID Integer](gt, pred [][]ID) (float64, error) {
	if err := checkRows(gt, pred); err != nil {
		return 0, err
	}

	hits := 0
	for i, row := range pred {
		nearest := gt[i][0]
		if nearest < 0 {
			continue
		}
		for _, id := range row {
			if id == nearest {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(gt)), nil
}

// AtK returns the mean over rows of |top-k(gt) ∩ top-k(pred)| / |top-k(gt)|,
// where negative padding ids are not counted in the ground-truth row.
// Rows whose top k holds no valid id are left out of the mean; if every row
// is such a row the result is 0. Every ground-truth row must hold at least k
// ids; shorter prediction rows simply contribute fewer hits.
func AtK[ID Integer](gt, pred [][]ID, k int) (float64, error) {
	if k <= 0 {
		return 0, &ValidationError{Field: "k", Actual: k, Msg: fmt.Sprintf("must be positive, got %d", k)}
	}
	if err := checkRows(gt, pred); err != nil {
		return 0, err
	}

	want := roaring64.New()
	got := roaring64.New()

	var (
		sum    float64
		scored int
	)
	for i := range gt {
		if len(gt[i]) < k {
			return 0, &ValidationError{Field: fmt.Sprintf("gt[%d]", i), Expected: k, Actual: len(gt[i])}
		}
		want.Clear()
		got.Clear()
		addIDs(want, gt[i][:k])
		addIDs(got, pred[i][:min(k, len(pred[i]))])

		valid := want.GetCardinality()
		if valid == 0 {
			continue
		}
		want.And(got)
		sum += float64(want.GetCardinality()) / float64(valid)
		scored++
	}
	if scored == 0 {
		return 0, nil
	}
	return sum / float64(scored), nil
}

func addIDs[ID Integer](bm *roaring64.Bitmap, ids []ID) {
	for _, id := range ids {
		if id >= 0 {
			bm.Add(uint64(id))
		}
	}
}

func checkRows[ID Integer](gt, pred [][]ID) error {
	if len(gt) != len(pred) {
		return &ValidationError{Field: "rows", Expected: len(gt), Actual: len(pred)}
	}
	if len(gt) == 0 {
		return &ValidationError{Field: "rows", Msg: "no queries to score"}
	}
	for i, row := range gt {
		if len(row) == 0 {
			return &ValidationError{Field: fmt.Sprintf("gt[%d]", i), Msg: "empty ground-truth row"}
		}
	}
	return nil
}
