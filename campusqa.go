// Package campusqa crawls a college website, extracts its text, removes
// near-duplicate pages, indexes the result for semantic search and answers
// questions over it with a retrieval-augmented generation chain.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/, gemini/).
// Orchestration lives in crawl/, extract/ and rag/.
package campusqa
