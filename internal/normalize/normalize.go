// Package normalize classifies marketplace URLs by path shape and rewrites
// them into their canonical, tracking-free form.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

type PathClass string

const (
	UniversalProduct PathClass = "universal_product"
	EventPage        PathClass = "event"
	ProductPage      PathClass = "product"
	ShopPage         PathClass = "shop"
	TrackedGeneric   PathClass = "tracked"
	Unclassified     PathClass = "unclassified"
)

// Classes lists every PathClass in precedence order.
var Classes = []PathClass{
	UniversalProduct,
	EventPage,
	ProductPage,
	ShopPage,
	TrackedGeneric,
	Unclassified,
}

// universalProductPath matches /{shop-slug}/{shopId}/{productId}. The optional
// /product prefix folds /product/{slug}/{shopId}/{productId} into the same shape.
var universalProductPath = regexp.MustCompile(`^(?:/product)?/[^/]+/(\d+)/(\d+)$`)

// reservedPrefixes block the shop-page rule for any path starting with them.
var reservedPrefixes = []string{"/search", "/cart"}

// reservedSegments block the shop-page rule on an exact single segment.
var reservedSegments = map[string]bool{
	"checkout": true,
	"user":     true,
	"buyer":    true,
	"login":    true,
	"signup":   true,
	"verify":   true,
}

// trackingMarkers are cut points for URLs that match no page shape.
var trackingMarkers = []string{"&uls_trackid", "&utm_"}

// Classify returns the canonical form of raw and the class that produced it.
// Input that is not an absolute URL is returned unchanged as Unclassified.
func Classify(raw string) (string, PathClass) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw, Unclassified
	}

	origin := originOf(u)
	path := u.EscapedPath()

	if m := universalProductPath.FindStringSubmatch(path); m != nil {
		return origin + "/product/" + m[1] + "/" + m[2], UniversalProduct
	}
	if strings.HasPrefix(path, "/m/") {
		return origin + path, EventPage
	}
	if strings.HasPrefix(path, "/product/") {
		return origin + path, ProductPage
	}
	if isShopPath(path) {
		return origin + path, ShopPage
	}
	if i := trackingIndex(raw); i >= 0 {
		return raw[:i], TrackedGeneric
	}
	return raw, Unclassified
}

// Canonicalize is Classify without the class.
func Canonicalize(raw string) string {
	clean, _ := Classify(raw)
	return clean
}

// originOf renders scheme://host with the host lowercased and the scheme's
// default port dropped.
func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	switch port := u.Port(); {
	case port == "":
	case scheme == "http" && port == "80":
	case scheme == "https" && port == "443":
	default:
		host += ":" + port
	}
	return scheme + "://" + host
}

func isShopPath(path string) bool {
	if len(path) < 2 || path[0] != '/' || strings.Contains(path[1:], "/") {
		return false
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return !reservedSegments[strings.ToLower(path[1:])]
}

// trackingIndex returns the position of the earliest tracking marker, or -1.
func trackingIndex(raw string) int {
	idx := -1
	for _, m := range trackingMarkers {
		if i := strings.Index(raw, m); i >= 0 && (idx < 0 || i < idx) {
			idx = i
		}
	}
	return idx
}
