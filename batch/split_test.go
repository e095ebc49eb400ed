package batch_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hasbyte1/go-batch/batch"
	"github.com/hasbyte1/go-batch/tensor"
)

// ─────────────────────────────────────────────────────────────────────────────
// FromTensor
// ─────────────────────────────────────────────────────────────────────────────

func TestFromTensorSlice(t *testing.T) {
	b, err := batch.FromTensor([]int{1, 2, 3, 4}, batch.Sizes{
		batch.S("a", 1),
		batch.S("b", 3),
	}, 0)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	assertKeys(t, b, "a", "b")
	assertGet(t, b, "a", []int{1})
	assertGet(t, b, "b", []int{2, 3, 4})
}

func TestFromTensorSharesSliceStorage(t *testing.T) {
	xs := []int{1, 2, 3}
	b, err := batch.FromTensor(xs, batch.Sizes{batch.S("head", 1), batch.S("tail", 2)}, 0)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	head, _ := b.Get("head")
	head.([]int)[0] = 99
	if xs[0] != 99 {
		t.Fatal("slice pieces should alias the payload")
	}
}

func TestFromTensorGroups(t *testing.T) {
	b, err := batch.FromTensor([]int{10, 20, 30, 40}, batch.Sizes{
		batch.Group("obs", batch.S("image", 2), batch.S("state", 1)),
		batch.S("act", 1),
	}, 0)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}
	assertKeys(t, b, "obs", "act")
	assertGet(t, b, "obs.image", []int{10, 20})
	assertGet(t, b, "obs.state", []int{30})
	assertGet(t, b, "act", []int{40})
}

func TestFromTensorSizeMismatch(t *testing.T) {
	for _, sizes := range []batch.Sizes{
		{batch.S("a", 1), batch.S("b", 1)}, // shortfall
		{batch.S("a", 2), batch.S("b", 3)}, // excess
	} {
		_, err := batch.FromTensor([]int{1, 2, 3}, sizes, 0)
		if !errors.Is(err, batch.ErrSizeMismatch) {
			t.Fatalf("FromTensor(%v): got %v want ErrSizeMismatch", sizes, err)
		}
	}
}

func TestFromTensorNegativeSize(t *testing.T) {
	_, err := batch.FromTensor([]int{1, 2}, batch.Sizes{batch.S("a", -1), batch.S("b", 3)}, 0)
	if !errors.Is(err, batch.ErrSizeMismatch) {
		t.Fatalf("FromTensor: got %v want ErrSizeMismatch", err)
	}
}

func TestFromTensorDuplicateKey(t *testing.T) {
	_, err := batch.FromTensor([]int{1, 2}, batch.Sizes{batch.S("a", 1), batch.S("a", 1)}, 0)
	if !errors.Is(err, batch.ErrKeyCollision) {
		t.Fatalf("FromTensor: got %v want ErrKeyCollision", err)
	}
}

func TestFromTensorAxisOnSlice(t *testing.T) {
	_, err := batch.FromTensor([]int{1, 2}, batch.Sizes{batch.S("a", 2)}, 1)
	if !errors.Is(err, batch.ErrInvalidAxis) {
		t.Fatalf("FromTensor: got %v want ErrInvalidAxis", err)
	}
}

func TestFromTensorUnsupportedPayload(t *testing.T) {
	_, err := batch.FromTensor(42, batch.Sizes{batch.S("a", 1)}, 0)
	if !errors.Is(err, batch.ErrUnsupportedOperation) {
		t.Fatalf("FromTensor: got %v want ErrUnsupportedOperation", err)
	}
}

func TestFromTensorTensorAxis(t *testing.T) {
	// A [2 x 6] tensor cut along axis 1 into 4 + 2 columns.
	tt, err := tensor.Arange(12).Reshape(2, 6)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	b, err := batch.FromTensor(tt, batch.Sizes{batch.S("image", 4), batch.S("state", 2)}, 1)
	if err != nil {
		t.Fatalf("FromTensor: %v", err)
	}

	img, _ := b.Get("image")
	if got := img.(*tensor.Tensor).Shape(); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Fatalf("image shape = %v, want [2 4]", got)
	}
	st, _ := b.Get("state")
	if got := st.(*tensor.Tensor).At(1, 0); got != 10 {
		t.Fatalf("state[1,0] = %v, want 10", got)
	}

	// Concatenating the pieces restores the payload.
	back, err := tensor.Cat([]*tensor.Tensor{img.(*tensor.Tensor), st.(*tensor.Tensor)}, 1)
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if !back.Equal(tt) {
		t.Fatalf("round trip = %v, want %v", back, tt)
	}
}

func TestFromTensorTensorBadAxis(t *testing.T) {
	_, err := batch.FromTensor(tensor.Arange(4), batch.Sizes{batch.S("a", 4)}, 2)
	if !errors.Is(err, batch.ErrInvalidAxis) {
		t.Fatalf("FromTensor: got %v want ErrInvalidAxis", err)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Size layouts
// ─────────────────────────────────────────────────────────────────────────────

func TestSizesTotal(t *testing.T) {
	sizes := batch.Sizes{
		batch.Group("obs", batch.S("image", 12), batch.S("state", 3)),
		batch.S("act", 4),
	}
	if got := sizes.Total(); got != 19 {
		t.Fatalf("Total = %d, want 19", got)
	}
}

func TestSizesFromYAML(t *testing.T) {
	sizes, err := batch.SizesFromYAML([]byte(`
observation:
  image: 12
  state: 3
action: 4
`))
	if err != nil {
		t.Fatalf("SizesFromYAML: %v", err)
	}
	want := batch.Sizes{
		batch.Group("observation", batch.S("image", 12), batch.S("state", 3)),
		batch.S("action", 4),
	}
	if !reflect.DeepEqual(sizes, want) {
		t.Fatalf("SizesFromYAML = %#v, want %#v", sizes, want)
	}
	if sizes.Total() != 19 {
		t.Fatalf("Total = %d, want 19", sizes.Total())
	}
}

func TestSizesFromYAMLErrors(t *testing.T) {
	for _, doc := range []string{
		"- 1\n- 2\n",       // sequence, not mapping
		"a: [1, 2]\n",      // sequence value
		"a: not-a-count\n", // non-integer scalar
	} {
		if _, err := batch.SizesFromYAML([]byte(doc)); err == nil {
			t.Fatalf("SizesFromYAML(%q) should fail", doc)
		}
	}
}

func TestSizesFromYAMLEmpty(t *testing.T) {
	sizes, err := batch.SizesFromYAML(nil)
	if err != nil {
		t.Fatalf("SizesFromYAML: %v", err)
	}
	if len(sizes) != 0 {
		t.Fatalf("SizesFromYAML(nil) = %v, want empty", sizes)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// FromBatches and Rows
// ─────────────────────────────────────────────────────────────────────────────

func TestFromBatches(t *testing.T) {
	got := batch.FromBatches(
		batch.New(batch.KV("x", 1), batch.KV("y", "a")),
		batch.New(batch.KV("x", 2), batch.KV("y", "b")),
	)
	assertKeys(t, got, "x", "y")
	assertGet(t, got, "x", []any{1, 2})
	assertGet(t, got, "y", []any{"a", "b"})
}

func TestFromBatchesFirstSeenOrder(t *testing.T) {
	got := batch.FromBatches(
		batch.New(batch.KV("x", 1)),
		batch.New(batch.KV("z", 2), batch.KV("x", 3)),
	)
	assertKeys(t, got, "x", "z")
	assertGet(t, got, "z", []any{2})
}

func TestFromBatchesRecursesWhenAllNested(t *testing.T) {
	got := batch.FromBatches(
		batch.New(batch.KV("obs", batch.New(batch.KV("pos", 1)))),
		batch.New(batch.KV("obs", batch.New(batch.KV("pos", 2)))),
	)
	assertGet(t, got, "obs.pos", []any{1, 2})
}

func TestFromBatchesMixedStaysFlat(t *testing.T) {
	inner := batch.New(batch.KV("pos", 1))
	got := batch.FromBatches(
		batch.New(batch.KV("obs", inner)),
		batch.New(batch.KV("obs", 5)),
	)
	v, _ := got.Get("obs")
	vs := v.([]any)
	if vs[0] != inner || vs[1] != 5 {
		t.Fatalf("obs = %v, want the raw payloads", vs)
	}
}

func TestFromBatchesSkipsNil(t *testing.T) {
	got := batch.FromBatches(nil, batch.New(batch.KV("x", 1)), nil)
	assertGet(t, got, "x", []any{1})
}

func TestRows(t *testing.T) {
	b := batch.New(
		batch.KV("x", []int{1, 2}),
		batch.KV("y", []string{"a", "b"}),
	)
	rows, err := b.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Rows = %d rows, want 2", len(rows))
	}
	assertGet(t, rows[0], "x", 1)
	assertGet(t, rows[1], "y", "b")
}

func TestRowsTruncatesToShortest(t *testing.T) {
	b := batch.New(
		batch.KV("x", []int{1, 2, 3}),
		batch.KV("y", []int{4}),
	)
	rows, err := b.Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Rows = %d rows, want 1", len(rows))
	}
}

func TestRowsUnmeasurablePayload(t *testing.T) {
	_, err := batch.New(batch.KV("n", 42)).Rows()
	if err == nil {
		t.Fatal("Rows on a length-less payload should fail")
	}
}

func TestRowsInvertFromBatches(t *testing.T) {
	r0 := batch.New(batch.KV("x", 1), batch.KV("y", "a"))
	r1 := batch.New(batch.KV("x", 2), batch.KV("y", "b"))
	rows, err := batch.FromBatches(r0, r1).Rows()
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if !rows[0].Equal(r0) || !rows[1].Equal(r1) {
		t.Fatalf("round trip = %v / %v", rows[0], rows[1])
	}
}
