// Package badger implements storage.ProfileRepository on top of an
// embedded BadgerDB instance, either file-backed or in-memory.
package badger
