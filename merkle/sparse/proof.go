package sparse

import "github.com/fuelvm-go/fuelvm/types"

// Proof is a membership or non-membership proof: the list of sibling
// hashes along the path from the root to key's position, ordered root-first.
type Proof struct {
	Siblings []types.Hash
	// Leaf is the terminal node actually found at key's path (nil if the
	// path ran out before any leaf, i.e. a subtree of zeros).
	Leaf *LeafData
}

// LeafData describes the leaf encountered at the end of a proof path. For a
// membership proof it is the (key, value) pair being proven; for a
// non-membership proof it is either nil or a different leaf that occupies
// the path prefix.
type LeafData struct {
	Key   types.Hash
	Value []byte
}

// Prove builds a Proof for key's current position in the tree.
func (t *Tree) Prove(key types.Hash) Proof {
	var siblings []types.Hash
	n := t.root
	for depth := 0; n != nil && !n.isLeaf; depth++ {
		if bit(key, depth) == 0 {
			siblings = append(siblings, hashNode(n.right))
			n = n.left
		} else {
			siblings = append(siblings, hashNode(n.left))
			n = n.right
		}
	}
	var leaf *LeafData
	if n != nil {
		leaf = &LeafData{Key: n.key, Value: cloneBytes(n.value)}
	}
	return Proof{Siblings: siblings, Leaf: leaf}
}

// VerifyMembership reports whether proof authenticates that key maps to
// value under root.
func VerifyMembership(root, key types.Hash, value []byte, proof Proof) bool {
	if proof.Leaf == nil || proof.Leaf.Key != key {
		return false
	}
	computed := leafSum(key, value)
	return verifyPath(computed, key, proof.Siblings) == root
}

// VerifyNonMembership reports whether proof authenticates that key is
// absent from the tree under root: either the path terminates in a
// different leaf, or it runs into an empty subtree.
func VerifyNonMembership(root, key types.Hash, proof Proof) bool {
	var leafHash types.Hash
	if proof.Leaf == nil {
		leafHash = zeroSum
	} else {
		if proof.Leaf.Key == key {
			return false
		}
		leafHash = leafSum(proof.Leaf.Key, proof.Leaf.Value)
	}
	return verifyPath(leafHash, key, proof.Siblings) == root
}

// verifyPath recombines a leaf (or zero placeholder) hash with its recorded
// siblings, walking from the deepest sibling back up to the root.
func verifyPath(leafHash types.Hash, key types.Hash, siblings []types.Hash) types.Hash {
	h := leafHash
	for depth := len(siblings) - 1; depth >= 0; depth-- {
		sib := siblings[depth]
		if bit(key, depth) == 0 {
			h = internalSum(h, sib)
		} else {
			h = internalSum(sib, h)
		}
	}
	return h
}
