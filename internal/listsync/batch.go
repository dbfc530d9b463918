package listsync

// MaxBatchSize is the most user IDs create_all accepts per call.
const MaxBatchSize = 100

// Partition splits ids into consecutive batches of size elements; the last
// batch holds the remainder. An empty input yields no batches. Batches share
// the backing array of ids and must not be appended to.
func Partition(ids []int64, size int) [][]int64 {
	if size <= 0 || size > MaxBatchSize {
		size = MaxBatchSize
	}
	if len(ids) == 0 {
		return nil
	}
	batches := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end:end])
	}
	return batches
}
