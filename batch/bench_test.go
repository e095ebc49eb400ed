package batch_test

import (
	"fmt"
	"testing"

	"github.com/hasbyte1/go-batch/batch"
)

// makeBatch creates a flat Batch with n integer-slice payloads for
// benchmarks.
func makeBatch(n int) *batch.Batch {
	b := batch.Empty()
	for i := 0; i < n; i++ {
		payload := make([]int, 16)
		for j := range payload {
			payload[j] = i + j
		}
		_ = b.Set(fmt.Sprintf("key%04d", i), payload)
	}
	return b
}

func BenchmarkGet(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Get("key0500")
	}
}

func BenchmarkGetDotted(b *testing.B) {
	bb := batch.New(batch.KV("obs", makeBatch(100)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Get("obs.key0050")
	}
}

func BenchmarkQuery(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Query("key05*")
	}
}

func BenchmarkSelect(b *testing.B) {
	bb := makeBatch(1_000)
	keys := []string{"key0001", "key0500", "key0999"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Select(keys...)
	}
}

func BenchmarkAdd(b *testing.B) {
	x := batch.Empty()
	for i := 0; i < 1_000; i++ {
		_ = x.Set(fmt.Sprintf("key%04d", i), i)
	}
	y := x.Clone()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = x.Add(y)
	}
}

func BenchmarkAtIndex(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.AtIndex(7)
	}
}

func BenchmarkMap(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb.Map(func(v any) any { return v })
	}
}

func BenchmarkInvokeLen(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Invoke("len")
	}
}

func BenchmarkFromBatches(b *testing.B) {
	rows := make([]*batch.Batch, 64)
	for i := range rows {
		rows[i] = batch.New(batch.KV("x", i), batch.KV("y", i*2), batch.KV("z", i*3))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		batch.FromBatches(rows...)
	}
}

func BenchmarkRows(b *testing.B) {
	bb := makeBatch(100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bb.Rows()
	}
}

func BenchmarkClone(b *testing.B) {
	bb := makeBatch(1_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bb.Clone()
	}
}
