package binary

import "testing"

func testData(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i), byte(i + 1), byte(i + 2)}
	}
	return out
}

func TestRootOfEmptyTreeIsEmptySum(t *testing.T) {
	tr := NewTree()
	if tr.Root() != EmptySum() {
		t.Fatalf("Root() of empty tree should equal EmptySum()")
	}
}

func TestRootOfSingleLeafIsLeafSum(t *testing.T) {
	tr := NewTree()
	data := testData(1)
	tr.Push(data[0])
	if tr.Root() != LeafSum(data[0]) {
		t.Fatalf("Root() of single-leaf tree should equal LeafSum(data)")
	}
}

func TestRootMatchesHandBuiltTreeForFourLeaves(t *testing.T) {
	tr := NewTree()
	data := testData(4)
	for _, d := range data {
		tr.Push(d)
	}
	l1, l2, l3, l4 := LeafSum(data[0]), LeafSum(data[1]), LeafSum(data[2]), LeafSum(data[3])
	n1 := NodeSum(l1, l2)
	n2 := NodeSum(l3, l4)
	want := NodeSum(n1, n2)
	if tr.Root() != want {
		t.Fatalf("Root() = %x, want %x", tr.Root(), want)
	}
}

func TestRootMatchesHandBuiltTreeForFiveLeaves(t *testing.T) {
	tr := NewTree()
	data := testData(5)
	for _, d := range data {
		tr.Push(d)
	}
	l1, l2, l3, l4, l5 := LeafSum(data[0]), LeafSum(data[1]), LeafSum(data[2]), LeafSum(data[3]), LeafSum(data[4])
	n1 := NodeSum(l1, l2)
	n2 := NodeSum(l3, l4)
	n3 := NodeSum(n1, n2)
	want := NodeSum(n3, l5)
	if tr.Root() != want {
		t.Fatalf("Root() = %x, want %x", tr.Root(), want)
	}
}

func TestProveAndVerifyRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 13} {
		data := testData(n)
		for idx := 0; idx < n; idx++ {
			tr := NewTreeWithProof(uint64(idx))
			for _, d := range data {
				tr.Push(d)
			}
			root, proof := tr.Prove()

			plain := NewTree()
			for _, d := range data {
				plain.Push(d)
			}
			if root != plain.Root() {
				t.Fatalf("n=%d idx=%d: Prove root %x != plain Root %x", n, idx, root, plain.Root())
			}

			if !Verify(root, data[idx], proof, uint64(idx), uint64(n)) {
				t.Errorf("n=%d idx=%d: Verify failed with valid proof", n, idx)
			}
			if Verify(root, []byte("wrong data"), proof, uint64(idx), uint64(n)) {
				t.Errorf("n=%d idx=%d: Verify succeeded with tampered leaf", n, idx)
			}
		}
	}
}

func TestVerifyRejectsOutOfRangeIndex(t *testing.T) {
	if Verify(Digest{}, []byte("x"), nil, 3, 2) {
		t.Fatalf("Verify should reject index >= leavesCount")
	}
}
