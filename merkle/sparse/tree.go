package sparse

import "github.com/fuelvm-go/fuelvm/types"

// node is either a leaf or a branch in the sparse tree.
type node struct {
	left  *node
	right *node

	isLeaf bool
	key    types.Hash
	value  []byte

	hash  types.Hash
	dirty bool
}

// Tree is a sparse Merkle tree over 32-byte hashed keys, used for per-contract
// state storage.
type Tree struct {
	root  *node
	count int
}

// NewTree returns an empty sparse tree.
func NewTree() *Tree {
	return &Tree{}
}

// Get retrieves the raw value stored under key. ok is false if key is absent.
func (t *Tree) Get(key types.Hash) (value []byte, ok bool) {
	n := t.root
	for depth := 0; n != nil; depth++ {
		if n.isLeaf {
			if n.key == key {
				return n.value, true
			}
			return nil, false
		}
		if bit(key, depth) == 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil, false
}

// Update inserts or overwrites the value stored under key. A nil or empty
// value deletes the key.
func (t *Tree) Update(key types.Hash, value []byte) {
	if len(value) == 0 {
		t.Delete(key)
		return
	}
	if t.root == nil {
		t.count++
	} else if _, existed := t.Get(key); !existed {
		t.count++
	}
	t.root = insert(t.root, key, value, 0)
}

func insert(n *node, key types.Hash, value []byte, depth int) *node {
	if n == nil {
		return &node{isLeaf: true, key: key, value: cloneBytes(value), dirty: true}
	}
	if n.isLeaf {
		if n.key == key {
			n.value = cloneBytes(value)
			n.dirty = true
			return n
		}
		return split(n, key, value, depth)
	}
	n.dirty = true
	if bit(key, depth) == 0 {
		n.left = insert(n.left, key, value, depth+1)
	} else {
		n.right = insert(n.right, key, value, depth+1)
	}
	return n
}

func split(existing *node, newKey types.Hash, newValue []byte, depth int) *node {
	existBit := bit(existing.key, depth)
	newBit := bit(newKey, depth)

	if existBit == newBit {
		child := split(existing, newKey, newValue, depth+1)
		branch := &node{dirty: true}
		if existBit == 0 {
			branch.left = child
		} else {
			branch.right = child
		}
		return branch
	}

	newLeaf := &node{isLeaf: true, key: newKey, value: cloneBytes(newValue), dirty: true}
	existing.dirty = true
	branch := &node{dirty: true}
	if existBit == 0 {
		branch.left = existing
		branch.right = newLeaf
	} else {
		branch.left = newLeaf
		branch.right = existing
	}
	return branch
}

// Delete removes key from the tree. No-op if key is absent.
func (t *Tree) Delete(key types.Hash) {
	if _, ok := t.Get(key); ok {
		t.count--
	}
	t.root = remove(t.root, key, 0)
}

func remove(n *node, key types.Hash, depth int) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		if n.key == key {
			return nil
		}
		return n
	}
	if bit(key, depth) == 0 {
		n.left = remove(n.left, key, depth+1)
	} else {
		n.right = remove(n.right, key, depth+1)
	}
	n.dirty = true

	if n.left == nil && n.right == nil {
		return nil
	}
	if n.left == nil && n.right.isLeaf {
		return n.right
	}
	if n.right == nil && n.left.isLeaf {
		return n.left
	}
	return n
}

// Root returns the current Merkle root, zeroSum for an empty tree.
func (t *Tree) Root() types.Hash {
	return hashNode(t.root)
}

func hashNode(n *node) types.Hash {
	if n == nil {
		return zeroSum
	}
	if !n.dirty && n.hash != zeroSum {
		return n.hash
	}
	var h types.Hash
	if n.isLeaf {
		h = leafSum(n.key, n.value)
	} else {
		h = internalSum(hashNode(n.left), hashNode(n.right))
	}
	n.hash = h
	n.dirty = false
	return h
}

// Len returns the number of keys stored in the tree.
func (t *Tree) Len() int { return t.count }

// Empty reports whether the tree holds no keys.
func (t *Tree) Empty() bool { return t.root == nil }

func cloneBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
