package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/trade"
)

// dateLayouts are the upload formats accepted in rough order of how
// often broker exports use them. Everything normalizes to ISO-8601.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeDate parses a date in any accepted upload format and returns
// it in YYYY-MM-DD form.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(trade.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}
