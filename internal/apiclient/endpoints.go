// File: internal/apiclient/endpoints.go
package apiclient

import "net/url"

// API paths, relative to the client's base URL.
const (
	PathSignIn     = "/admin/signin"
	PathRefresh    = "/admin/refresh"
	PathLogout     = "/admin/logout"
	PathProfile    = "/admin/profile"
	PathContacts   = "/contacts"
	PathAllContact = "/get-contacts"
	PathStats      = "/contacts/stats"
)

// ContactPath is the path of a single contact.
func ContactPath(id string) string {
	return PathContacts + "/" + url.PathEscape(id)
}

// skipsRefresh lists endpoints whose 401 means bad credentials rather than an expired token.
var skipsRefresh = map[string]bool{
	PathSignIn:  true,
	PathRefresh: true,
}
