package listing

// Count 满足条件的记录数
func Count[T any](items []T, pred Predicate[T]) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// CountBy 按分组计数。buckets 中列出的分组即使为 0 也会出现在结果中。
func CountBy[T any](items []T, key func(T) string, buckets ...string) map[string]int {
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b] = 0
	}
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// SumInt 整数字段求和
func SumInt[T any](items []T, value func(T) int) int {
	sum := 0
	for _, item := range items {
		sum += value(item)
	}
	return sum
}
