package nettrace

import "github.com/verdie-g/nettrace/internal/nettrace/symbol"

// CleanSymbol renders a rundown-reported (namespace, name, signature)
// triple into a source-like method signature, per §4.12. It is a pure
// string transform with no dependency on a decoded Trace, so it can be run
// lazily or skipped entirely by callers that don't need source-like names.
func CleanSymbol(namespace, name, signature string) string {
	return symbol.Clean(namespace, name, signature)
}
