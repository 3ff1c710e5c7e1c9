package dom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// booleanAttrs are removed instead of set to "false".
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"hidden":          true,
	"inert":           true,
	"ismap":           true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// IsBooleanAttr reports whether name is an HTML boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[strings.ToLower(name)]
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute.
func RemoveAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Attrs returns a copy of the node's attributes.
func Attrs(n *html.Node) []html.Attribute {
	return slices.Clone(n.Attr)
}

// HasClass reports whether the class attribute contains name.
func HasClass(n *html.Node, name string) bool {
	v, _ := Attr(n, "class")
	return slices.Contains(strings.Fields(v), name)
}

// ToggleClass adds or removes one class name.
func ToggleClass(n *html.Node, name string, on bool) {
	v, _ := Attr(n, "class")
	fields := strings.Fields(v)
	has := slices.Contains(fields, name)
	switch {
	case on && !has:
		fields = append(fields, name)
	case !on && has:
		fields = slices.DeleteFunc(fields, func(f string) bool { return f == name })
	default:
		return
	}
	if len(fields) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(fields, " "))
}
