package xml

// WalkResult controls a Walk traversal
type WalkResult int

const (
	// WalkContinue descends into the children of the current node
	WalkContinue WalkResult = iota
	// WalkSkip skips the children of the current node
	WalkSkip
	// WalkStop ends the traversal
	WalkStop
)

// Walk visits n and its descendants in document order. The children of a node
// are captured before they are visited, so fn may detach or replace the node it
// is given. Walk reports false if fn stopped the traversal.
func Walk(n *Node, fn func(*Node) WalkResult) bool {
	switch fn(n) {
	case WalkStop:
		return false
	case WalkSkip:
		return true
	}
	if len(n.Children) == 0 {
		return true
	}
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}
