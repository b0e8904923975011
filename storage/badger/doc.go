// Package badger implements storage.DocumentRepository on BadgerDB.
// One database serves all tenants; keys carry the tenant ID so listing
// and purging stay prefix scans.
package badger
