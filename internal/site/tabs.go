package site

import "strings"

// Tabs are the site's top-level sections in navigation order.
var Tabs = []string{"home", "gallery", "about", "shop", "contact"}

// DefaultTab is selected when a hash names nothing recognizable.
const DefaultTab = "home"

// IsTab reports whether name is one of Tabs.
func IsTab(name string) bool {
	for _, t := range Tabs {
		if t == name {
			return true
		}
	}
	return false
}

// TabID returns the element id of a tab's radio input.
func TabID(name string) string {
	return "tab-" + name
}

// Hash returns the URL fragment that selects a tab.
func Hash(name string) string {
	return "#" + name
}

// Router maps URL fragments to tabs. Anchors maps element ids to the tab
// whose section contains them, so deep links into a section land on its tab.
type Router struct {
	Anchors map[string]string
}

// PickTab resolves a URL fragment without anchor knowledge.
func PickTab(hash string) string {
	return Router{}.Pick(hash)
}

// Pick resolves a URL fragment ("#gallery", "#tab-shop", "#contact-heading")
// to a tab name. Unknown fragments fall back to DefaultTab.
func (r Router) Pick(hash string) string {
	raw := strings.ToLower(strings.TrimPrefix(hash, "#"))
	if raw == "" {
		return DefaultTab
	}
	if IsTab(raw) {
		return raw
	}
	if name, ok := strings.CutPrefix(raw, "tab-"); ok && IsTab(name) {
		return name
	}
	if tab, ok := r.Anchors[raw]; ok && IsTab(tab) {
		return tab
	}
	for _, name := range Tabs {
		if strings.Contains(raw, name) {
			return name
		}
	}
	return DefaultTab
}
