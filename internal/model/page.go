package model

import "strings"

// Role is the viewer's account kind.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleCompany   Role = "company"
	RoleAnonymous Role = ""
)

// ParseRole normalizes a configured role. Unknown values are kept as-is
// so dispatch treats them as "any other role".
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// PageContext is the viewer state a session starts with. It is built once
// at startup and passed by value; nothing mutates it afterwards.
type PageContext struct {
	// Role of the signed-in account, or RoleAnonymous.
	Role Role

	// Authenticated is true when a session cookie is available.
	Authenticated bool

	// BaseURL is the web application root used to build navigation links.
	BaseURL string
}

// NewPageContext builds a PageContext. A viewer without a session is
// always anonymous regardless of the configured role.
func NewPageContext(baseURL string, role Role, authenticated bool) PageContext {
	if !authenticated {
		role = RoleAnonymous
	}
	return PageContext{
		Role:          role,
		Authenticated: authenticated,
		BaseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// URL joins path onto BaseURL.
func (p PageContext) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return p.BaseURL + path
}
