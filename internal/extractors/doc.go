// Package extractors provides FileExtractor implementations that turn
// uploaded files and inline HTML into plain text, and the Registry that
// selects one by file extension.
//
// Extractors return errors for malformed input; the ingestion service
// treats an extraction error as empty text (fail closed).
package extractors
