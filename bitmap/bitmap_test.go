package bitmap

import "testing"

func TestBulkInsertAndEnumerate(t *testing.T) {
	b, err := New(100)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, pos := range []uint64{5, 1, 99, 1, 50} {
		if err := b.BulkInsert(pos); err != nil {
			t.Fatalf("BulkInsert(%d) failed: %v", pos, err)
		}
	}

	var got []uint64
	for pos := range b.Enumerate() {
		got = append(got, pos)
	}

	want := []uint64{1, 5, 50, 99}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCapacityExceeded(t *testing.T) {
	b, err := New(10)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := b.BulkInsert(10); err == nil {
		t.Fatalf("expected ErrCapacityExceeded, got nil")
	}
	if _, err := New(MaxCapacityBits + 1); err == nil {
		t.Fatalf("expected ErrCapacityExceeded for oversized capacity, got nil")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	a, _ := New(1000)
	for _, pos := range []uint64{3, 7, 11, 500} {
		_ = a.BulkInsert(pos)
	}

	data, err := a.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	empty, _ := New(1000)
	if err := empty.DeserializeInto(data); err != nil {
		t.Fatalf("DeserializeInto failed: %v", err)
	}

	cardA, _ := a.Cardinality()
	cardB, _ := empty.Cardinality()
	if cardA != cardB {
		t.Fatalf("cardinality mismatch: got %d, want %d", cardB, cardA)
	}

	var gotA, gotB []uint64
	for pos := range a.Enumerate() {
		gotA = append(gotA, pos)
	}
	for pos := range empty.Enumerate() {
		gotB = append(gotB, pos)
	}
	if len(gotA) != len(gotB) {
		t.Fatalf("enumeration length mismatch: %v vs %v", gotA, gotB)
	}
	for i := range gotA {
		if gotA[i] != gotB[i] {
			t.Errorf("index %d: got %d, want %d", i, gotB[i], gotA[i])
		}
	}
}

func TestOrMergeIdempotent(t *testing.T) {
	a, _ := New(1000)
	_ = a.BulkInsert(1)
	_ = a.BulkInsert(2)

	b, _ := New(1000)
	_ = b.BulkInsert(2)
	_ = b.BulkInsert(3)

	if err := a.OrInPlace(b); err != nil {
		t.Fatalf("OrInPlace failed: %v", err)
	}
	// Idempotence: OR with the same bitmap again leaves the result unchanged.
	if err := a.OrInPlace(b); err != nil {
		t.Fatalf("second OrInPlace failed: %v", err)
	}

	var got []uint64
	for pos := range a.Enumerate() {
		got = append(got, pos)
	}
	want := []uint64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDeserializeIntoIsUnion(t *testing.T) {
	a, _ := New(1000)
	_ = a.BulkInsert(10)

	b, _ := New(1000)
	_ = b.BulkInsert(20)
	dataB, _ := b.Serialize()

	if err := a.DeserializeInto(dataB); err != nil {
		t.Fatalf("DeserializeInto failed: %v", err)
	}

	var got []uint64
	for pos := range a.Enumerate() {
		got = append(got, pos)
	}
	want := []uint64{10, 20}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
