// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/members", "/system-users").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParam is an optional query parameter to preserve in the fallback URL.
	// For example, "org" would check for an org parameter and append it to the fallback.
	PreserveQueryParam string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	url := navigation.SafeBackURL(r, navigation.BackURLOptions{
//	    AllowedPrefix:    "/members",
//	    ExcludedSubpaths: []string{"/upload_csv"},
//	    Fallback:         "/members",
//	    PreserveQueryParam: "org",
//	})
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	// Try query parameter first, then form value
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	// Validate against allowed prefix if specified
	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}

		// Check excluded subpaths
		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	// Build fallback URL, optionally preserving a query parameter
	fallback := opts.Fallback
	if opts.PreserveQueryParam != "" {
		param := query.Get(r, opts.PreserveQueryParam)
		if param == "" {
			param = strings.TrimSpace(r.FormValue(opts.PreserveQueryParam))
		}
		if param == "" {
			// Also check common variations like "orgID" for "org"
			param = strings.TrimSpace(r.FormValue(opts.PreserveQueryParam + "ID"))
		}
		if param != "" && param != "all" {
			if strings.Contains(fallback, "?") {
				fallback += "&" + opts.PreserveQueryParam + "=" + param
			} else {
				fallback += "?" + opts.PreserveQueryParam + "=" + param
			}
		}
	}

	return fallback
}

// Common back URL configurations for reuse across packages.
var (
	// TrainingsBackURL returns options for admin training pages.
	TrainingsBackURL = BackURLOptions{
		AllowedPrefix:    "/trainings",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new", "/assign"},
		Fallback:         "/trainings",
	}

	// MyTrainingsBackURL returns options for the employee training list.
	MyTrainingsBackURL = BackURLOptions{
		AllowedPrefix: "/my/trainings",
		Fallback:      "/my/trainings",
	}

	// DocumentsBackURL returns options for admin document pages.
	DocumentsBackURL = BackURLOptions{
		AllowedPrefix:    "/documents",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/documents",
	}

	// EmployeesBackURL returns options for admin employee directory pages.
	EmployeesBackURL = BackURLOptions{
		AllowedPrefix:    "/employees",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/employees",
	}

	// MyDocumentsBackURL returns options for the employee document list.
	MyDocumentsBackURL = BackURLOptions{
		AllowedPrefix: "/my/documents",
		Fallback:      "/my/documents",
	}
)
