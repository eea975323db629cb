package site

import (
	"sort"
	"strings"
)

var registry = map[string]Site{}

// Register adds s under its lowercase name. Sites call it from init.
func Register(s Site) {
	registry[strings.ToLower(s.Name())] = s
}

// Get finds a site by name.
func Get(name string) (Site, bool) {
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// ForURL finds the site serving rawURL.
func ForURL(rawURL string) (Site, bool) {
	host := Host(rawURL)
	if host == "" {
		return nil, false
	}
	for _, name := range Names() {
		if s := registry[name]; s.Matches(host) {
			return s, true
		}
	}
	return nil, false
}

// Names lists registered sites in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
