package plugin

import (
	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
	"github.com/Sumatoshi-tech/sfcshift/pkg/esimport"
	"github.com/Sumatoshi-tech/sfcshift/pkg/jsast"
)

// Annotate gives every untyped parameter of every function under root the
// fallback type. Functions shaped (to, from, next) get the route type on
// their first two parameters instead. It reports whether the shape was seen.
func Annotate(root *jsast.Node) bool {
	route := false

	root.Walk(func(n *jsast.Node) bool {
		if jsast.IsFunction(n) && AnnotateParams(n) {
			route = true
		}

		return true
	})

	return route
}

// AnnotateParams annotates the parameters of one function.
func AnnotateParams(fn *jsast.Node) bool {
	params := jsast.Params(fn)
	guard := IsGuard(params)

	for i, param := range params {
		if jsast.ParamHasType(param) {
			continue
		}

		_, target := jsast.ParamBinding(param)
		if target == nil {
			continue
		}

		if guard && i < 2 {
			target.SetTypeAnnotation(component.RouteType)
		} else {
			target.SetTypeAnnotation(component.FallbackType)
		}
	}

	return guard
}

// IsGuard reports whether the parameters start with (to, from, next).
func IsGuard(params []*jsast.Node) bool {
	if len(params) < len(component.GuardParams) {
		return false
	}

	for i, want := range component.GuardParams {
		if name, _ := jsast.ParamBinding(params[i]); name != want {
			return false
		}
	}

	return true
}

// EnsureRouteImport makes sure the route type is imported from the router
// module, extending an existing import of it when possible.
func EnsureRouteImport(imports []*esimport.Import) []*esimport.Import {
	return esimport.EnsureNamed(imports, component.RouterModule, component.RouteType)
}
