package sym

// This file holds the graph analyses run after semantic analysis has
// populated the table: DAG construction, topological ordering with
// cycle detection, and the three candidate-detection passes. The
// detectors only mark symbols; transformation is a downstream concern.

// BuildDAG populates the forward (producer→consumer) and reverse
// adjacency maps from the linked symbols. Tensors without a producer
// (model inputs, initializers) contribute no edges.
func (st *Table) BuildDAG() {
	st.Forward = make(map[*NodeSymbol][]*NodeSymbol)
	st.Reverse = make(map[*NodeSymbol][]*NodeSymbol)

	for _, node := range st.nodeOrder {
		for _, input := range node.Inputs {
			if producer := input.Producer; producer != nil {
				st.Forward[producer] = append(st.Forward[producer], node)
				st.Reverse[node] = append(st.Reverse[node], producer)
			}
		}
	}
}

// TopoSort computes the topological order of the node symbols via
// depth-first search. On detecting a cycle it sets HasCycle, clears the
// order, and returns; it never fails otherwise.
func (st *Table) TopoSort() {
	st.Order = nil
	st.HasCycle = false

	visited := make(map[*NodeSymbol]bool)
	recStack := make(map[*NodeSymbol]bool)

	for _, node := range st.nodeOrder {
		if !visited[node] {
			if !st.topoSortDFS(node, visited, recStack) {
				st.HasCycle = true
				st.Order = nil
				return
			}
		}
	}

	// DFS appended in post-order; reverse for producers-first
	for i, j := 0, len(st.Order)-1; i < j; i, j = i+1, j-1 {
		st.Order[i], st.Order[j] = st.Order[j], st.Order[i]
	}
}

func (st *Table) topoSortDFS(node *NodeSymbol, visited, recStack map[*NodeSymbol]bool) bool {
	visited[node] = true
	recStack[node] = true

	for _, child := range st.Forward[node] {
		if recStack[child] {
			return false
		}
		if !visited[child] {
			if !st.topoSortDFS(child, visited, recStack) {
				return false
			}
		}
	}

	delete(recStack, node)
	st.Order = append(st.Order, node)
	return true
}

// DetectConstantFolding marks every node whose input list is non-empty
// and consists entirely of initializer tensors as a folding candidate.
func (st *Table) DetectConstantFolding() {
	for _, node := range st.Order {
		if len(node.Inputs) == 0 {
			continue
		}

		allConst := true
		for _, input := range node.Inputs {
			if !input.IsInitializer {
				allConst = false
				break
			}
		}

		if allConst {
			node.FoldCandidate = true
		}
	}
}

// DetectDeadCode walks backwards from the model-output tensors along
// the producer relation and marks every node and tensor it never
// reaches as dead.
func (st *Table) DetectDeadCode() {
	usedTensors := make(map[*TensorSymbol]bool)
	usedNodes := make(map[*NodeSymbol]bool)

	var queue []*TensorSymbol
	for _, tensor := range st.tensorOrder {
		if tensor.IsModelOutput {
			usedTensors[tensor] = true
			queue = append(queue, tensor)
		}
	}

	for len(queue) > 0 {
		tensor := queue[0]
		queue = queue[1:]

		producer := tensor.Producer
		if producer == nil || usedNodes[producer] {
			continue
		}
		usedNodes[producer] = true

		for _, input := range producer.Inputs {
			if !usedTensors[input] {
				usedTensors[input] = true
				queue = append(queue, input)
			}
		}
	}

	for _, node := range st.nodeOrder {
		node.Dead = !usedNodes[node]
	}
	for _, tensor := range st.tensorOrder {
		tensor.Dead = !usedTensors[tensor]
	}
}

// DetectCommonSubexpr groups nodes by operation signature (operator
// type plus ordered input names) and marks every member of a group of
// two or more as a CSE candidate.
func (st *Table) DetectCommonSubexpr() {
	st.CSEGroups = make(map[string][]*NodeSymbol)

	for _, node := range st.Order {
		sig := node.OpType + ":"
		for _, input := range node.Inputs {
			sig += input.Name + ","
		}

		node.CSESignature = sig
		st.CSEGroups[sig] = append(st.CSEGroups[sig], node)
	}

	for sig, nodes := range st.CSEGroups {
		if len(nodes) > 1 {
			for _, node := range nodes {
				node.CSECandidate = true
			}
		} else {
			delete(st.CSEGroups, sig)
		}
	}
}
