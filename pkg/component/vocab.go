package component

import "fmt"

// Framework vocabulary shared by extractors, synthesizers and passes.
const (
	BaseModule      = "vue"
	BaseType        = "Vue"
	DecoratorModule = "vue-property-decorator"
	ClassComponent  = "vue-class-component"

	ComponentDecorator = "Component"
	PropDecorator      = "Prop"
	WatchDecorator     = "Watch"

	StoreHelper      = "mapState"
	StoreHelperScope = "vuex"
	StoreModule      = "@/store"
	StoreLocal       = "store"
	StoreRoot        = "state"

	RouterModule = "vue-router"
	RouteType    = "Route"
	FallbackType = "any"

	WatchSigil = "$"
)

// Opaque option keys copied verbatim between styles.
const (
	OptComponents = "components"
	OptFilters    = "filters"
	OptDirectives = "directives"
	OptMixins     = "mixins"
)

// Option keys decomposed into members.
const (
	OptName     = "name"
	OptProps    = "props"
	OptData     = "data"
	OptComputed = "computed"
	OptWatch    = "watch"
	OptMethods  = "methods"
)

// OpaqueOptions lists the opaque keys in emission order.
var OpaqueOptions = []string{OptComponents, OptFilters, OptDirectives, OptMixins}

// LifecycleHooks is the allow-list of hook names lifted into lifecycle members.
var LifecycleHooks = []string{
	"beforeCreate",
	"created",
	"beforeMount",
	"mounted",
	"beforeUpdate",
	"updated",
	"activated",
	"deactivated",
	"beforeDestroy",
	"destroyed",
	"errorCaptured",
	"beforeRouteEnter",
	"beforeRouteUpdate",
	"beforeRouteLeave",
	"render",
}

// GuardParams is the positional parameter shape of a navigation guard.
var GuardParams = [3]string{"to", "from", "next"}

// IsLifecycleHook reports whether name is in the allow-list.
func IsLifecycleHook(name string) bool {
	for _, h := range LifecycleHooks {
		if h == name {
			return true
		}
	}

	return false
}

// IsOpaqueOption reports whether key is copied verbatim.
func IsOpaqueOption(key string) bool {
	for _, o := range OpaqueOptions {
		if o == key {
			return true
		}
	}

	return false
}

// IsKnownOption reports whether key is handled by extraction.
func IsKnownOption(key string) bool {
	switch key {
	case OptName, OptProps, OptData, OptComputed, OptWatch, OptMethods:
		return true
	default:
		return IsOpaqueOption(key) || IsLifecycleHook(key)
	}
}

// Style names an authoring style.
type Style string

// Authoring styles.
const (
	ObjectStyle Style = "object"
	ClassStyle  Style = "class"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case ObjectStyle, ClassStyle:
		return Style(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}
