package convert

import (
	"strings"
)

// Kind is the failure taxonomy of a conversion.
type Kind string

const (
	InvalidRequest    Kind = "invalid_request"
	Unauthenticated   Kind = "unauthenticated"
	PermissionDenied  Kind = "permission_denied"
	RateLimited       Kind = "rate_limited"
	ServiceInternal   Kind = "service_internal"
	ServiceOverloaded Kind = "service_overloaded"
	ContentBlocked    Kind = "content_blocked"
	UnknownError      Kind = "unknown"
)

type rule struct {
	kind     Kind
	patterns []string
	message  string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{InvalidRequest, []string{"400", "api key", "invalid argument"}, "Invalid API Key or Request. Please check your configuration."},
	{Unauthenticated, []string{"401", "unauthenticated"}, "Authentication failed. Please check your API key."},
	{PermissionDenied, []string{"403", "permission denied"}, "Permission denied. Your API key might not have access to this model."},
	{RateLimited, []string{"429", "exhausted", "quota"}, "Rate limit exceeded. Please wait a moment and try again."},
	{ServiceInternal, []string{"500", "internal"}, "Internal server error. Please try again later."},
	{ServiceOverloaded, []string{"503", "overloaded"}, "The AI service is currently overloaded. Please try again later."},
	{ContentBlocked, []string{"safety", "blocked"}, "The content was flagged by safety settings. Please try distinct content."},
}

// Classify maps a raw service error message onto a failure kind and the
// message shown to the user. Unmatched messages are returned verbatim.
func Classify(raw string) (Kind, string) {
	lower := strings.ToLower(raw)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(lower, p) {
				return r.kind, r.message
			}
		}
	}
	return UnknownError, raw
}

// UserMessage returns the fixed notice for kind, or "" for UnknownError.
func UserMessage(kind Kind) string {
	for _, r := range rules {
		if r.kind == kind {
			return r.message
		}
	}
	return ""
}
