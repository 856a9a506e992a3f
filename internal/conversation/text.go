package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	spacedQMarkRe = regexp.MustCompile(`\s+\?`)
	arabicCharRe  = regexp.MustCompile(`[\x{0600}-\x{06FF}]`)
	latinLetterRe = regexp.MustCompile(`[A-Za-z]`)
	clockTimeRe   = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b(\s*(?i:am|pm)\b)?`)

	arabicFolder = strings.NewReplacer(
		"أ", "ا",
		"إ", "ا",
		"آ", "ا",
		"ى", "ي",
		"ؤ", "ء",
		"ئ", "ء",
		"ة", "ه",
		"ـ", "",
	)
)

// normalizeMessage trims, unifies the Arabic question mark, glues it to the preceding
// word and collapses whitespace.
func normalizeMessage(text string) string {
	text = strings.ReplaceAll(text, "؟", "?")
	text = spacedQMarkRe.ReplaceAllString(text, "?")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// NormalizeArabic folds alef, yaa, hamza-carrier and taa-marbuta variants and strips
// diacritics. Used for keyword matching only.
func NormalizeArabic(text string) string {
	text = arabicFolder.Replace(text)
	return strings.Map(func(r rune) rune {
		if r >= 0x064B && r <= 0x0652 {
			return -1
		}
		return r
	}, text)
}

// foldForMatch lowercases and normalizes text for keyword lookups.
func foldForMatch(text string) string {
	return NormalizeArabic(strings.ToLower(text))
}

func containsArabic(text string) bool {
	return arabicCharRe.MatchString(text)
}

func containsLatin(text string) bool {
	return latinLetterRe.MatchString(text)
}

// To12Hour converts "HH:MM" to 12-hour form. Arabic uses صباحاً/مساءً.
// Unparseable input is returned unchanged.
func To12Hour(clock string, lang ResponseLang) string {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return clock
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return clock
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return clock
	}

	morning := hour < 12
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	period := "PM"
	if morning {
		period = "AM"
	}
	if lang == ResponseArabic {
		period = "مساءً"
		if morning {
			period = "صباحاً"
		}
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, period)
}

// annotateTimes appends the 12-hour equivalent after every bare 24-hour time.
// Times already followed by AM/PM are left alone.
func annotateTimes(text string, lang ResponseLang) string {
	return clockTimeRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := clockTimeRe.FindStringSubmatch(match)
		if strings.TrimSpace(sub[3]) != "" {
			return match
		}
		clock := sub[1] + ":" + sub[2]
		return fmt.Sprintf("%s (%s)", match, To12Hour(clock, lang))
	})
}
