package constants

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestTimeFormat(t *testing.T) {
	// Check that a time zone component exists in the global time format.
	re := regexp.MustCompile("^.*0700$")
	if !re.MatchString(TimeFormatYearSecondsTZ) {
		t.Fatal("Unexpected time format - missing time zone component.")
	}
	// Check that the global regexp can match constant TimeFormatYearSeconds.
	re = regexp.MustCompile(TimeFormatYearSecondsRegex)
	if !re.MatchString(TimeFormatYearSeconds) {
		t.Fatal("Mismatch between TimeFormatYearSeconds and regexp in constant TimeFormatYearSecondsRegex.")
	}
}

func TestDefaultSnapshotDates(t *testing.T) {
	// Check that every default snapshot date parses using the shared date layout.
	dates := strings.Split(DefaultSnapshotDates, ",")
	if len(dates) != 11 {
		t.Fatalf("expected 11 default snapshot dates; got %v", len(dates))
	}
	for _, d := range dates {
		if _, err := time.Parse(TimeFormatDate, d); err != nil {
			t.Fatalf("default snapshot date %q does not match layout %q: %v", d, TimeFormatDate, err)
		}
	}
}
