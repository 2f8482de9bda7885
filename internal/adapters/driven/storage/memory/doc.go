// Package memory provides in-memory document and chunk stores for tests,
// development and the storage.driver = "memory" setting.
//
// Stores are safe for concurrent use. Contents are lost on exit.
package memory
