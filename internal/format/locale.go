package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

type names struct {
	months   [12]string
	weekdays [7]string // Sunday first, as time.Weekday
}

var supported = []language.Tag{
	language.English,
	language.Finnish,
	language.German,
	language.French,
	language.Spanish,
	language.Swedish,
}

var localized = []names{
	{
		months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	},
	{
		months:   [12]string{"tammikuuta", "helmikuuta", "maaliskuuta", "huhtikuuta", "toukokuuta", "kesäkuuta", "heinäkuuta", "elokuuta", "syyskuuta", "lokakuuta", "marraskuuta", "joulukuuta"},
		weekdays: [7]string{"sunnuntai", "maanantai", "tiistai", "keskiviikko", "torstai", "perjantai", "lauantai"},
	},
	{
		months:   [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		weekdays: [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	},
	{
		months:   [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		weekdays: [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	},
	{
		months:   [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		weekdays: [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	},
	{
		months:   [12]string{"januari", "februari", "mars", "april", "maj", "juni", "juli", "augusti", "september", "oktober", "november", "december"},
		weekdays: [7]string{"söndag", "måndag", "tisdag", "onsdag", "torsdag", "fredag", "lördag"},
	},
}

var matcher = language.NewMatcher(supported)

// ParseLocale parses a BCP 47 tag, falling back to English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

func lookup(tag language.Tag) names {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return localized[0]
	}
	return localized[idx]
}

// LongDate formats t as "D Month (Weekday), YYYY" with localized names.
func LongDate(t time.Time, tag language.Tag) string {
	n := lookup(tag)
	return fmt.Sprintf("%d %s (%s), %d", t.Day(), n.months[t.Month()-1], n.weekdays[t.Weekday()], t.Year())
}

// DayLabel formats t for forecast cards, e.g. "Mon 3 Mar".
func DayLabel(t time.Time, tag language.Tag) string {
	n := lookup(tag)
	return fmt.Sprintf("%s %d %s", abbreviate(n.weekdays[t.Weekday()]), t.Day(), abbreviate(n.months[t.Month()-1]))
}

func abbreviate(s string) string {
	r := []rune(s)
	if len(r) <= 3 {
		return s
	}
	return string(r[:3])
}
