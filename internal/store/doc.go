// Package store persists games, touchdown scorers, picks, and match
// decisions in SQLite. Reads go through per-entity query helpers; grading
// writes go through Batch so a run commits atomically or not at all.
package store
