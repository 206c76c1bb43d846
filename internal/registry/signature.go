package registry

import (
	"fmt"
	"strings"

	"github.com/ascompiler/core/internal/namespace"
	"github.com/ascompiler/core/internal/types"
)

// SignatureHash computes the hash namespace.Index uses to detect duplicate
// overloads: two functions sharing a qualified name must differ in
// parameter arity or at least one parameter's (type_id, ref_modifier,
// is_handle) triple.
func SignatureHash(params []types.Param) namespace.SignatureHash {
	var sb strings.Builder
	for _, p := range params {
		t := p.Type.Triple()
		fmt.Fprintf(&sb, "(%d,%d,%t)", t.TypeId, t.RefModifier, t.IsHandle)
	}
	return namespace.SignatureHash(sb.String())
}

// ParamsEqual reports whether two parameter lists are identical for
// overload/override-matching purposes: same arity and identity triples
//.
func ParamsEqual(a, b []types.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type.Triple() != b[i].Type.Triple() {
			return false
		}
	}
	return true
}
