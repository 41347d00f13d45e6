package main

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tdpool/internal/store"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// displayName title-cases a name for output without flattening initials
// already in uppercase.
func displayName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.3f", score)
}

func formatPayout(payout float64) string {
	return fmt.Sprintf("%+.2f", payout)
}

func formatOdds(odds int) string {
	return fmt.Sprintf("%+d", odds)
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.UTC().Format("2006-01-02 15:04")
}

func kindLabel(kind store.PickKind) string {
	switch kind {
	case store.KindFirstTD:
		return "First TD"
	case store.KindAnytime:
		return "Anytime TD"
	default:
		return string(kind)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
