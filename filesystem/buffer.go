package filesystem

// ensureCapacity grows a file node's buffer so that at least want bytes are
// addressable. Growth doubles starting from minCap (or the current capacity
// if nonzero) and the new region is zero-filled, so never-written bytes in
// range always read as zero. Capacity never shrinks.
func (n *Node) ensureCapacity(want, minCap int) error {
	if want < 0 {
		// overflowed offset+length computation
		return ErrCapacity
	}
	if len(n.data) >= want {
		return nil
	}
	newCap := len(n.data)
	if newCap == 0 {
		newCap = minCap
	}
	for newCap < want {
		newCap *= 2
		if newCap <= 0 {
			return ErrCapacity
		}
	}
	grown := make([]byte, newCap)
	copy(grown, n.data)
	n.data = grown
	return nil
}
