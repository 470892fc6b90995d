package web

import "testing"

func TestIsFederationRequest(t *testing.T) {
	tests := []struct {
		name     string
		accept   string
		expected bool
	}{
		{
			name:     "activity json",
			accept:   "application/activity+json",
			expected: true,
		},
		{
			name:     "activity json among others",
			accept:   "application/activity+json, text/html",
			expected: true,
		},
		{
			name:     "ld json with activitystreams profile",
			accept:   `application/ld+json; profile="https://www.w3.org/ns/activitystreams"`,
			expected: true,
		},
		{
			name:     "ld json without profile",
			accept:   "application/ld+json",
			expected: false,
		},
		{
			name:     "ld json with wrong profile",
			accept:   `application/ld+json; profile="https://example.com/other"`,
			expected: false,
		},
		{
			name:     "browser accept header",
			accept:   "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			expected: false,
		},
		{
			name:     "plain html",
			accept:   "text/html",
			expected: false,
		},
		{
			name:     "wildcard",
			accept:   "*/*",
			expected: false,
		},
		{
			name:     "empty header",
			accept:   "",
			expected: false,
		},
		{
			name:     "garbage",
			accept:   ";;;not a media type;;;",
			expected: false,
		},
		{
			name:     "mastodon style with both types",
			accept:   `application/activity+json, application/ld+json; profile="https://www.w3.org/ns/activitystreams"`,
			expected: true,
		},
		{
			name:     "activity json with q parameter",
			accept:   "application/activity+json; q=0.9, text/html",
			expected: true,
		},
		{
			name:     "uppercase media type",
			accept:   "APPLICATION/ACTIVITY+JSON",
			expected: true,
		},
		{
			name:     "malformed sibling part",
			accept:   ";;;not a media type;;;, application/activity+json",
			expected: true,
		},
		{
			name:     "profile parameter with multiple values",
			accept:   `application/ld+json; profile="x https://www.w3.org/ns/activitystreams"`,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFederationRequest(tt.accept); got != tt.expected {
				t.Errorf("IsFederationRequest(%q) = %v, expected %v", tt.accept, got, tt.expected)
			}
		})
	}
}
