package core

import "strings"

// ValidateTenantID checks that a tenant ID is usable as a collection scope.
func ValidateTenantID(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrEmptyTenantID
	}
	return nil
}

// ValidateDocument checks the fields required before a document can be
// chunked and stored.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyDocumentID
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyDocumentName
	}
	if strings.TrimSpace(d.Content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// ValidateQuery checks that a query has usable content.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
