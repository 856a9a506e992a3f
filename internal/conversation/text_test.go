package conversation

import "testing"

func TestNormalizeArabic(t *testing.T) {
	tests := map[string]string{
		"أقرب":     "اقرب",
		"إلى":      "الي",
		"مصلى":     "مصلي",
		"قاعة":     "قاعه",
		"مُحَاضَرَة": "محاضره",
		"سؤال":     "سءال",
		"Dunkin":   "Dunkin",
	}
	for in, want := range tests {
		if got := NormalizeArabic(in); got != want {
			t.Errorf("NormalizeArabic(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTo12Hour(t *testing.T) {
	tests := []struct {
		in   string
		lang ResponseLang
		want string
	}{
		{"00:00", ResponseEnglish, "12:00 AM"},
		{"09:05", ResponseEnglish, "9:05 AM"},
		{"12:30", ResponseEnglish, "12:30 PM"},
		{"14:00", ResponseEnglish, "2:00 PM"},
		{"23:59", ResponseEnglish, "11:59 PM"},
		{"08:00", ResponseArabic, "8:00 صباحاً"},
		{"17:15", ResponseArabic, "5:15 مساءً"},
		{"25:00", ResponseEnglish, "25:00"},
		{"noon", ResponseEnglish, "noon"},
	}
	for _, tt := range tests {
		if got := To12Hour(tt.in, tt.lang); got != tt.want {
			t.Errorf("To12Hour(%q, %s) = %q, want %q", tt.in, tt.lang, got, tt.want)
		}
	}
}

func TestAnnotateTimes(t *testing.T) {
	got := annotateTimes("Open 07:00-22:00, closes at 10:00 PM", ResponseEnglish)
	want := "Open 07:00 (7:00 AM)-22:00 (10:00 PM), closes at 10:00 PM"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}

	if got := annotateTimes("يفتح 14:30", ResponseArabic); got != "يفتح 14:30 (2:30 مساءً)" {
		t.Fatalf("unexpected arabic annotation %q", got)
	}
}

func TestNormalizeMessage(t *testing.T) {
	cases := map[string]string{
		"  وين   المصلى؟ \n": "وين المصلى?",
		"وين ؟":             "وين?",
		"where   ?":         "where?",
		"وينه\t؟":           "وينه?",
		"room B1-3 ? ok":    "room B1-3? ok",
	}
	for in, want := range cases {
		if got := normalizeMessage(in); got != want {
			t.Fatalf("normalizeMessage(%q) = %q, want %q", in, got, want)
		}
	}
}
