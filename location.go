package goseq

import "net/url"

// Location is a route-like value identifying where a navigation-aware
// program currently is. Locations are plain comparable values: the core
// never interprets them, it only threads them into location-aware
// initializers and converts location-change events into messages.
type Location struct {
	// Path is the path component, e.g. "/settings/profile".
	Path string
	// Query is the raw query string without the leading "?".
	Query string
	// Fragment is the fragment without the leading "#".
	Fragment string
}

// ParseLocation builds a Location from a URL-like string. Malformed input
// yields a Location whose Path is the raw string, so a feed of opaque route
// tokens still round-trips.
func ParseLocation(raw string) Location {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{Path: raw}
	}
	return Location{Path: u.Path, Query: u.RawQuery, Fragment: u.Fragment}
}

// String renders the location back into URL form.
func (l Location) String() string {
	u := url.URL{Path: l.Path, RawQuery: l.Query, Fragment: l.Fragment}
	return u.String()
}
