// internal/app/system/search/search.go
package search

import "strings"

// EmailPivotOK reports whether a roster search should pivot from the
// name-prefix index to the email index.
//
// We pivot when the query is clearly an email fragment (it contains '@')
// and the result set is constrained by status, which keeps the indexed
// email path selective enough to stay fast on large rosters.
//
// Typical usage in the employee list:
//
//	if search.EmailPivotOK(q, status) {
//	    filter.EmailSearch = q
//	} else {
//	    filter.Search = q
//	}
func EmailPivotOK(query, status string) bool {
	qHasAt := strings.Contains(query, "@")
	statusFixed := equalsAnyFold(status, "active", "disabled")
	return qHasAt && statusFixed
}

func equalsAnyFold(s string, vals ...string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, v := range vals {
		if s == strings.ToLower(v) {
			return true
		}
	}
	return false
}
