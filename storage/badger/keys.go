package badger

// Key prefix for document registry records.
const documentRecordPrefix = "docrec"

// makeDocumentKey generates the key for one document record.
// Format: docrec:<tenant>:<documentID>
func makeDocumentKey(tenantID, documentID string) []byte {
	return []byte(documentRecordPrefix + ":" + tenantID + ":" + documentID)
}

// makeTenantPrefix generates the scan prefix covering one tenant.
func makeTenantPrefix(tenantID string) []byte {
	return []byte(documentRecordPrefix + ":" + tenantID + ":")
}
