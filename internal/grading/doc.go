// Package grading settles pool picks against recorded touchdown scorers.
// A run resolves each pick's player name, grades wins and losses, records
// match decisions, and commits everything for the week in one batch.
package grading
