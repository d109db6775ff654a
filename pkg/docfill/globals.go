package docfill

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Names of the global placeholders. Every value exists in an English and a
// German spelling and is available in every scope.
const (
	GlobalCurrentYear      = "CURRENT_YEAR"
	GlobalCurrentMonth     = "CURRENT_MONTH"
	GlobalCurrentDay       = "CURRENT_DAY"
	GlobalCurrentWeekday   = "CURRENT_WEEKDAY"
	GlobalCurrentDate      = "CURRENT_DATE"
	GlobalCurrentDateLocal = "CURRENT_DATE_LOCAL"

	GlobalAktuellesJahr       = "AKTUELLES_JAHR"
	GlobalAktuellerMonat      = "AKTUELLER_MONAT"
	GlobalAktuellerTag        = "AKTUELLER_TAG"
	GlobalAktuellerWochentag  = "AKTUELLER_WOCHENTAG"
	GlobalAktuellesDatum      = "AKTUELLES_DATUM"
	GlobalAktuellesDatumLokal = "AKTUELLES_DATUM_LOKAL"
)

var germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// globalValues is the scope of global placeholders for one generation call
type globalValues map[string]string

func newGlobalValues(now time.Time, locale language.Tag) globalValues {
	weekday := now.Weekday().String()
	local := now.Format("01/02/2006")
	if locale == language.German {
		weekday = germanWeekdays[now.Weekday()]
		local = now.Format("02.01.2006")
	}

	values := map[string]string{
		GlobalCurrentYear:      fmt.Sprintf("%04d", now.Year()),
		GlobalCurrentMonth:     fmt.Sprintf("%02d", int(now.Month())),
		GlobalCurrentDay:       fmt.Sprintf("%02d", now.Day()),
		GlobalCurrentWeekday:   weekday,
		GlobalCurrentDate:      now.Format("2006-01-02"),
		GlobalCurrentDateLocal: local,
	}
	aliases := map[string]string{
		GlobalAktuellesJahr:       GlobalCurrentYear,
		GlobalAktuellerMonat:      GlobalCurrentMonth,
		GlobalAktuellerTag:        GlobalCurrentDay,
		GlobalAktuellerWochentag:  GlobalCurrentWeekday,
		GlobalAktuellesDatum:      GlobalCurrentDate,
		GlobalAktuellesDatumLokal: GlobalCurrentDateLocal,
	}
	for alias, name := range aliases {
		values[alias] = values[name]
	}
	return values
}

func (g globalValues) lookup(key string) (string, bool) {
	v, ok := g[upperCase(key)]
	return v, ok
}
