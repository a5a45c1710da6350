package view

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/erazemk/unifind/internal/model"
)

// Currency selects a price prefix and grouping.
type Currency int

const (
	// CurrencyRs is used on the public listings: "Rs 12,500".
	CurrencyRs Currency = iota
	// CurrencyNPR is used on the profile pages: "NPR 12500".
	CurrencyNPR
)

// Unknown is shown for missing dates.
const Unknown = "Unknown"

const day = 24 * time.Hour

// FormatPrice renders amount with the currency's prefix. Rs prices get
// thousands separators and at most three fraction digits.
func FormatPrice(amount float64, c Currency) string {
	switch c {
	case CurrencyNPR:
		return "NPR " + strconv.FormatFloat(amount, 'f', -1, 64)
	default:
		return "Rs " + humanize.Commaf(math.Round(amount*1000)/1000)
	}
}

// RelativeDate renders ts relative to now: Today, Yesterday, N days ago,
// N weeks ago, then an absolute date from 30 days on.
func RelativeDate(ts model.Timestamp, now time.Time) string {
	if !ts.Valid() {
		return Unknown
	}
	diff := now.Sub(ts.Time)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / day)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return ts.Time.In(now.Location()).Format("Jan 2, 2006")
	}
}

// DateTime renders ts with date and time in loc.
func DateTime(ts model.Timestamp, loc *time.Location) string {
	if !ts.Valid() {
		return Unknown
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.Time.In(loc).Format("Jan 2, 2006, 03:04 PM")
}

// Rating renders an average rating with one decimal, or N/A when absent.
func Rating(r *float64) string {
	if r == nil || *r == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// ReviewCount renders "(n)", or nothing when there are no reviews.
func ReviewCount(n int) string {
	if n == 0 {
		return ""
	}
	return "(" + strconv.Itoa(n) + ")"
}

// Fallback returns s, or def when s is empty.
func Fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
