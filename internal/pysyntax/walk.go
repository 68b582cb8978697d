package pysyntax

// Inspect traverses the tree rooted at node in depth-first order, calling
// f for each node. If f returns false, the children of that node are
// skipped. Every node is visited once.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		walkStmts(n.Body, f)
	case *FuncDef:
		walkExprs(n.Decorators, f)
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Returns != nil {
			Inspect(n.Returns, f)
		}
		walkStmts(n.Body, f)
	case *Param:
		if n.Annotation != nil {
			Inspect(n.Annotation, f)
		}
		if n.Default != nil {
			Inspect(n.Default, f)
		}
	case *ClassDef:
		walkExprs(n.Decorators, f)
		walkExprs(n.Bases, f)
		walkStmts(n.Body, f)
	case *Assign:
		walkExprs(n.Targets, f)
		Inspect(n.Value, f)
	case *AnnAssign:
		Inspect(n.Target, f)
		Inspect(n.Annotation, f)
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *Compound:
		walkStmts(n.Body, f)
	case *SimpleStmt:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *List:
		walkExprs(n.Elts, f)
	case *Tuple:
		walkExprs(n.Elts, f)
	case *Set:
		walkExprs(n.Elts, f)
	case *Call:
		Inspect(n.Func, f)
	}
}

func walkStmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

func walkExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		Inspect(e, f)
	}
}
