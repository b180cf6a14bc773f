package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// LocatorKind identifies which storage-URL variant a locator matched.
type LocatorKind string

const (
	// LocatorBucketPath is the plain <host>/<bucket>/<object> form.
	LocatorBucketPath LocatorKind = "bucket-path"
	// LocatorQueryParam carries the object name in a "name" query parameter.
	LocatorQueryParam LocatorKind = "query-param"
	// LocatorEncodedPath carries a percent-encoded object path segment.
	LocatorEncodedPath LocatorKind = "encoded-path"
)

// Locator is a resolved document location. Resolution of the object into raw
// bytes is a collaborator concern; the pipeline only needs a well-formed
// bucket/object pair before it starts.
type Locator struct {
	Kind   LocatorKind
	Bucket string
	Object string
}

// locatorParser is one variant's parse attempt. ok=false means the variant
// does not apply; err is returned only for a matching but malformed locator.
type locatorParser func(u *url.URL) (Locator, bool)

// ResolveLocator parses a storage locator against the closed set of known
// variants, in order. Unparseable locators are rejected before the pipeline
// begins.
func ResolveLocator(raw string) (Locator, error) {
	if strings.TrimSpace(raw) == "" {
		return Locator{}, fmt.Errorf("empty locator: %w", ErrLocatorParse)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, fmt.Errorf("parse locator %q: %w", raw, ErrLocatorParse)
	}

	parsers := []locatorParser{
		parseQueryParamLocator,
		parseEncodedPathLocator,
		parseBucketPathLocator,
	}
	for _, parse := range parsers {
		if loc, ok := parse(u); ok {
			return loc, nil
		}
	}

	return Locator{}, fmt.Errorf("locator %q matches no known variant: %w", raw, ErrLocatorParse)
}

// parseQueryParamLocator handles ?name=<object> style download URLs.
func parseQueryParamLocator(u *url.URL) (Locator, bool) {
	name := u.Query().Get("name")
	if name == "" {
		return Locator{}, false
	}
	bucket := strings.Trim(u.Path, "/")
	if i := strings.IndexByte(bucket, '/'); i >= 0 {
		bucket = bucket[:i]
	}
	if bucket == "" {
		return Locator{}, false
	}
	return Locator{Kind: LocatorQueryParam, Bucket: bucket, Object: name}, true
}

// parseEncodedPathLocator handles /<bucket>/<percent-encoded object> where the
// object segment still contains encoded separators after one decode pass.
func parseEncodedPathLocator(u *url.URL) (Locator, bool) {
	if !strings.Contains(u.EscapedPath(), "%2F") && !strings.Contains(u.EscapedPath(), "%2f") {
		return Locator{}, false
	}
	segments := strings.SplitN(strings.Trim(u.EscapedPath(), "/"), "/", 2)
	if len(segments) != 2 || segments[0] == "" {
		return Locator{}, false
	}
	object, err := url.PathUnescape(segments[1])
	if err != nil || object == "" {
		return Locator{}, false
	}
	return Locator{Kind: LocatorEncodedPath, Bucket: segments[0], Object: object}, true
}

// parseBucketPathLocator handles the plain /<bucket>/<object path> form.
func parseBucketPathLocator(u *url.URL) (Locator, bool) {
	segments := strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return Locator{}, false
	}
	return Locator{Kind: LocatorBucketPath, Bucket: segments[0], Object: segments[1]}, true
}
