package binary

// node is one link in the right spine: a complete subtree of the given
// height, chained to the subtree immediately to its left.
type node struct {
	next   *node
	height uint32
	data   Digest
}

// Tree computes a Merkle root over a stream of pushed leaves using a
// right-spine of at-most-one subtree per height, merging equal-height
// neighbors as soon as they appear. This yields the root in a single pass
// without buffering the whole leaf set, and produces the same root as the
// recursive "largest power of two below n" decomposition for any leaf count.
type Tree struct {
	head        *node
	leavesCount uint64

	proofIndex uint64
	proofSet   []Digest
	tracking   bool
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// NewTreeWithProof returns an empty tree that additionally records the
// sibling digests needed to prove membership of the leaf at proofIndex.
func NewTreeWithProof(proofIndex uint64) *Tree {
	return &Tree{proofIndex: proofIndex, tracking: true}
}

// LeavesCount reports how many leaves have been pushed.
func (t *Tree) LeavesCount() uint64 { return t.leavesCount }

// Root returns the current Merkle root, or EmptySum if no leaves were pushed.
func (t *Tree) Root() Digest {
	if t.head == nil {
		return EmptySum()
	}
	cur := t.head
	for cur.next != nil {
		n := cur
		next := n.next
		cur = joinSubtrees(next, n)
	}
	return cur.data
}

// Push appends a leaf's raw data to the tree, updating the root incrementally.
func (t *Tree) Push(data []byte) {
	if t.tracking && t.leavesCount == t.proofIndex {
		t.proofSet = append(t.proofSet, LeafSum(data))
	}

	n := &node{next: t.head, height: 0, data: LeafSum(data)}
	t.head = n
	t.joinAllSubtrees()
	t.leavesCount++
}

func (t *Tree) joinAllSubtrees() {
	for {
		head := t.head
		if !(head.next != nil && head.height == head.next.height) {
			break
		}

		if t.tracking && head.height+1 == uint32(len(t.proofSet)) {
			headLeaves := uint64(1) << head.height
			mid := (t.leavesCount / headLeaves) * headLeaves
			if t.proofIndex < mid {
				t.proofSet = append(t.proofSet, head.data)
			} else {
				t.proofSet = append(t.proofSet, head.next.data)
			}
		}

		n := t.head
		next := n.next
		t.head = joinSubtrees(next, n)
	}
}

func joinSubtrees(a, b *node) *node {
	return &node{
		next:   a.next,
		height: a.height + 1,
		data:   NodeSum(a.data, b.data),
	}
}

// Prove finalizes proof tracking (Tree must have been created with
// NewTreeWithProof) and returns the root together with the proof set for
// the configured index, in leaf-to-root order with the leaf hash itself
// removed.
func (t *Tree) Prove() (Digest, []Digest) {
	if t.head == nil || len(t.proofSet) == 0 {
		return t.Root(), t.proofSet
	}

	current := t.head
	proofLen := uint32(len(t.proofSet))
	for current.next != nil && current.next.height < proofLen-1 {
		n := current
		next := n.next
		current = joinSubtrees(next, n)
	}

	if current.next != nil && current.next.height == proofLen-1 {
		t.proofSet = append(t.proofSet, current.data)
		current = current.next
	}

	for current.next != nil {
		t.proofSet = append(t.proofSet, current.next.data)
		current = current.next
	}

	root := t.Root()

	set := t.proofSet[1:]
	return root, append([]Digest(nil), set...)
}
