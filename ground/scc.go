package ground

import "github.com/hexhex/core/registry"

// tarjanSCC computes the strongly connected components of the directed
// graph given by edges (node -> successor list), returning components in
// no particular order. Standard iterative-recursion Tarjan (recursive
// here since ground programs are not expected to have call-stack-busting
// depth in the component shapes this spec targets).
func tarjanSCC(nodes []registry.Address, edges map[registry.Address][]registry.Address) [][]registry.Address {
	index := make(map[registry.Address]int)
	lowlink := make(map[registry.Address]int)
	onStack := make(map[registry.Address]bool)
	var stack []registry.Address
	var comps [][]registry.Address
	next := 0

	var strongconnect func(v registry.Address)
	strongconnect = func(v registry.Address) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []registry.Address
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			comps = append(comps, comp)
		}
	}

	for _, v := range nodes {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return comps
}
