package graph

// AddFile adds a File node carrying path and language properties.
func AddFile(e *Engine, path, language string) (NodeID, error) {
	props := NewPropertyMap().With("path", StringValue(path)).With("language", StringValue(language))
	return e.AddNode(KindFile, props)
}

// AddFunction adds a Function node and a Contains edge from file to it.
func AddFunction(e *Engine, file NodeID, name string, lineStart, lineEnd int64) (NodeID, error) {
	props := NewPropertyMap().
		With("name", StringValue(name)).
		With("line_start", IntValue(lineStart)).
		With("line_end", IntValue(lineEnd))
	fn, err := e.AddNode(KindFunction, props)
	if err != nil {
		return 0, err
	}
	if _, err := e.AddEdge(file, fn, EdgeContains, nil); err != nil {
		return 0, err
	}
	return fn, nil
}

// AddCall adds a Calls edge from caller to callee carrying the call-site
// line number.
func AddCall(e *Engine, caller, callee NodeID, line int64) (EdgeID, error) {
	props := NewPropertyMap().With("line", IntValue(line))
	return e.AddEdge(caller, callee, EdgeCalls, props)
}

// AddImport adds an Imports edge from importer to imported carrying the
// list of imported symbol names.
func AddImport(e *Engine, importer, imported NodeID, symbols []string) (EdgeID, error) {
	props := NewPropertyMap().With("symbols", StringListValue(symbols))
	return e.AddEdge(importer, imported, EdgeImports, props)
}

// edgesOfKind filters the edge ids in bucket down to those whose stored
// edge has the given kind, resolving each through the backend.
func edgesOfKind(e *Engine, bucket map[EdgeID]struct{}, kind EdgeKind) []*Edge {
	out := make([]*Edge, 0, len(bucket))
	for id := range bucket {
		edge, err := e.backend.GetEdge(id)
		if err != nil {
			continue
		}
		if edge.Kind == kind {
			out = append(out, edge)
		}
	}
	return out
}

// GetCallers returns the source nodes of every Calls edge targeting fn.
func GetCallers(e *Engine, fn NodeID) []NodeID {
	edges := edgesOfKind(e, e.idx.incoming[fn], EdgeCalls)
	out := make([]NodeID, len(edges))
	for i, edge := range edges {
		out[i] = edge.Source
	}
	return out
}

// GetCallees returns the target nodes of every Calls edge originating at
// fn.
func GetCallees(e *Engine, fn NodeID) []NodeID {
	edges := edgesOfKind(e, e.idx.outgoing[fn], EdgeCalls)
	out := make([]NodeID, len(edges))
	for i, edge := range edges {
		out[i] = edge.Target
	}
	return out
}

// GetFileDependencies returns the target nodes of every Imports edge
// originating at file.
func GetFileDependencies(e *Engine, file NodeID) []NodeID {
	edges := edgesOfKind(e, e.idx.outgoing[file], EdgeImports)
	out := make([]NodeID, len(edges))
	for i, edge := range edges {
		out[i] = edge.Target
	}
	return out
}

// GetFileDependents returns the source nodes of every Imports edge
// targeting file.
func GetFileDependents(e *Engine, file NodeID) []NodeID {
	edges := edgesOfKind(e, e.idx.incoming[file], EdgeImports)
	out := make([]NodeID, len(edges))
	for i, edge := range edges {
		out[i] = edge.Source
	}
	return out
}

// GetFunctionsInFile returns the targets of every Contains edge
// originating at file whose target node is a Function.
func GetFunctionsInFile(e *Engine, file NodeID) []NodeID {
	edges := edgesOfKind(e, e.idx.outgoing[file], EdgeContains)
	out := make([]NodeID, 0, len(edges))
	for _, edge := range edges {
		target, err := e.backend.GetNode(edge.Target)
		if err != nil {
			continue
		}
		if target.Kind == KindFunction {
			out = append(out, edge.Target)
		}
	}
	return out
}
