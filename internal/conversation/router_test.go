package conversation

import (
	"reflect"
	"testing"
)

func TestRouteIntents(t *testing.T) {
	router := NewRouter()
	withPlace := ConversationState{LastPlaceQuery: "Dunkin", LastLang: ResponseEnglish}

	tests := []struct {
		name        string
		message     string
		state       ConversationState
		intent      Intent
		place       string
		origin      string
		destination string
		clarify     bool
	}{
		{name: "english directions", message: "from B1-3 to Dunkin", intent: IntentDirections, origin: "B1-3", destination: "Dunkin"},
		{name: "directions inside a sentence", message: "How do I get from  the gate   to the library ", intent: IntentDirections, origin: "the gate", destination: "the library"},
		{name: "arabic directions", message: "من البوابة إلى المكتبة", intent: IntentDirections, origin: "البوابة", destination: "المكتبة"},
		{name: "directions beat facility", message: "from the toilet to the cafe", intent: IntentDirections, origin: "the toilet", destination: "the cafe"},
		{name: "follow up with place", message: "where?", state: withPlace, intent: IntentPlaceQuery, place: "Dunkin"},
		{name: "arabic follow up with place", message: "وين؟", state: withPlace, intent: IntentPlaceQuery, place: "Dunkin"},
		{name: "arabic follow up spaced question mark", message: "وين ؟", state: withPlace, intent: IntentPlaceQuery, place: "Dunkin"},
		{name: "english follow up spaced question mark", message: "where is it ?", state: withPlace, intent: IntentPlaceQuery, place: "Dunkin"},
		{name: "follow up without place", message: "Where is it?", intent: IntentClarify, clarify: true},
		{name: "too short without context", message: "b1", intent: IntentClarify, clarify: true},
		{name: "short with context is a place query", message: "b1", state: withPlace, intent: IntentPlaceQuery, place: "b1"},
		{name: "facility english", message: "Where is the nearest toilet?", intent: IntentFacilityQuery, place: "Where is the nearest toilet?"},
		{name: "facility arabic", message: "وين اقرب مصلى", intent: IntentFacilityQuery, place: "وين اقرب مصلى"},
		{name: "facility arabic hamza", message: "وين أقرب حمام", intent: IntentFacilityQuery, place: "وين أقرب حمام"},
		{name: "review query beats facility", message: "what are the reviews for the cafe", intent: IntentReviewQuery},
		{name: "review query arabic", message: "وش تقييمات المكان", intent: IntentReviewQuery},
		{name: "review submit", message: "My review: the toilet is dirty", intent: IntentReviewSubmit},
		{name: "review submit arabic", message: "رأيي ان المكان نظيف", intent: IntentReviewSubmit},
		{name: "bootcamp", message: "When does the data science bootcamp start?", intent: IntentBootcampQuery, place: "When does the data science bootcamp start?"},
		{name: "bootcamp arabic", message: "متى يبدأ معسكر البيانات", intent: IntentBootcampQuery, place: "متى يبدأ معسكر البيانات"},
		{name: "campus is not a bootcamp", message: "where is the campus library", intent: IntentPlaceQuery, place: "where is the campus library"},
		{name: "default place query", message: "Where is   room B1-3 ?", intent: IntentPlaceQuery, place: "Where is room B1-3?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := router.Route(tt.message, tt.state)
			if d.Intent != tt.intent {
				t.Fatalf("intent = %s, want %s", d.Intent, tt.intent)
			}
			if d.PlaceQuery != tt.place {
				t.Fatalf("place query = %q, want %q", d.PlaceQuery, tt.place)
			}
			if d.OriginQuery != tt.origin || d.DestinationQuery != tt.destination {
				t.Fatalf("origin/destination = %q/%q, want %q/%q", d.OriginQuery, d.DestinationQuery, tt.origin, tt.destination)
			}
			if d.NeedsClarification != tt.clarify {
				t.Fatalf("needs clarification = %v, want %v", d.NeedsClarification, tt.clarify)
			}
			if d.NeedsClarification && d.ClarificationQuestion == "" {
				t.Fatal("clarification without a question")
			}
		})
	}
}

func TestRouteResponseLanguage(t *testing.T) {
	router := NewRouter()
	tests := []struct {
		name    string
		message string
		state   ConversationState
		lang    Language
		want    ResponseLang
	}{
		{"latin only", "where is the library", ConversationState{LastLang: ResponseArabic}, LanguageEnglish, ResponseEnglish},
		{"arabic only", "وين المكتبة", ConversationState{LastLang: ResponseEnglish}, LanguageArabic, ResponseArabic},
		{"mixed", "وين Dunkin", ConversationState{}, LanguageMixed, ResponseArabic},
		{"no letters keeps last language", "B1-3?", ConversationState{LastLang: ResponseArabic}, LanguageEnglish, ResponseEnglish},
		{"digits only keeps last language", "123", ConversationState{LastLang: ResponseArabic}, LanguageEnglish, ResponseArabic},
		{"digits only defaults to english", "123", ConversationState{}, LanguageEnglish, ResponseEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := router.Route(tt.message, tt.state)
			if d.Lang != tt.lang || d.ResponseLang != tt.want {
				t.Fatalf("lang=%s response=%s, want %s/%s", d.Lang, d.ResponseLang, tt.lang, tt.want)
			}
		})
	}
}

func TestRouteClarificationLanguage(t *testing.T) {
	router := NewRouter()
	if d := router.Route("وين؟", ConversationState{}); d.ClarificationQuestion != clarifyQuestionAR {
		t.Fatalf("expected arabic clarification, got %q", d.ClarificationQuestion)
	}
	if d := router.Route("where?", ConversationState{}); d.ClarificationQuestion != clarifyQuestionEN {
		t.Fatalf("expected english clarification, got %q", d.ClarificationQuestion)
	}
}

func TestRouteIsIdempotent(t *testing.T) {
	router := NewRouter()
	state := ConversationState{LastPlaceQuery: "Subway", LastLang: ResponseArabic}
	messages := []string{"where?", "from A to B", "وين اقرب دورة مياه", "reviews please", "", "   ", "hello there"}
	for _, msg := range messages {
		first := router.Route(msg, state)
		second := router.Route(msg, state)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("route(%q) not idempotent: %#v vs %#v", msg, first, second)
		}
	}
	if state.LastPlaceQuery != "Subway" {
		t.Fatal("router must not mutate state")
	}
}

func TestRouteArabicOnlyAlwaysArabic(t *testing.T) {
	router := NewRouter()
	for _, msg := range []string{"مرحبا", "وين القاعة", "من هنا إلى هناك", "تقييمات", "ما"} {
		if d := router.Route(msg, ConversationState{LastLang: ResponseEnglish}); d.ResponseLang != ResponseArabic {
			t.Fatalf("route(%q) response lang = %s", msg, d.ResponseLang)
		}
	}
}
