package conversation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	clarifyQuestionEN = "Which place/classroom do you mean? Please provide the name or room number."
	clarifyQuestionAR = "تقصد أي مكان/قاعة؟ اكتب الاسم أو رقم القاعة."

	defaultMinMessageRunes = 3
)

var (
	directionsENRe = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+)`)
	directionsARRe = regexp.MustCompile(`من\s+(.+?)\s+(?:إلى|الى)\s+(.+)`)
	bootcampENRe   = regexp.MustCompile(`(?i)\b(boot\s?)?camps?\b`)

	shortFollowUps = toSet(
		"where", "where?", "where is it", "where is it?", "here?", "there?",
		"وين", "وين?", "وينه", "وينه?", "هنا", "هنا?", "هناك", "هناك?",
	)

	facilityKeywords = foldAll(
		"toilet", "bathroom", "restroom", "cafe", "cafeteria", "prayer", "nearest", "closest",
		"دورة", "حمام", "مقهى", "كافتيريا", "مصلى", "اقرب", "أقرب",
	)

	reviewQueryMarkers = foldAll(
		"reviews", "ratings", "what do people say",
		"تقييمات", "مراجعات", "آراء",
	)

	reviewSubmitMarkers = foldAll(
		"review:", "feedback:", "my review", "my feedback", "leave a review", "i rate",
		"رأيي", "تقييمي", "ملاحظتي",
	)

	bootcampKeywordsAR = foldAll("معسكر")
)

// routeInput is what every matcher sees. It is built once per message.
type routeInput struct {
	normalized string
	folded     string
	lang       Language
	response   ResponseLang
	state      ConversationState
}

func (in routeInput) decision(intent Intent) RouteDecision {
	return RouteDecision{Lang: in.lang, ResponseLang: in.response, Intent: intent}
}

func (in routeInput) clarify() RouteDecision {
	d := in.decision(IntentClarify)
	d.NeedsClarification = true
	d.ClarificationQuestion = clarifyQuestionEN
	if in.response == ResponseArabic {
		d.ClarificationQuestion = clarifyQuestionAR
	}
	return d
}

// matcher inspects a message and claims it by returning true.
type matcher func(in routeInput) (RouteDecision, bool)

// Router classifies messages by running matchers in fixed priority order; the first
// match wins and a place query is the fallback.
type Router struct {
	matchers []matcher
}

func NewRouter() *Router {
	return &Router{matchers: []matcher{
		matchDirections,
		matchShortFollowUp,
		matchTooShort(defaultMinMessageRunes),
		matchReviewQuery,
		matchReviewSubmit,
		matchFacility,
		matchBootcamp,
	}}
}

// Route never fails and only reads state.
func (r *Router) Route(message string, state ConversationState) RouteDecision {
	normalized := normalizeMessage(message)
	lang := detectLanguage(normalized)
	in := routeInput{
		normalized: normalized,
		folded:     foldForMatch(normalized),
		lang:       lang,
		response:   responseLanguage(normalized, lang, state),
		state:      state,
	}

	for _, m := range r.matchers {
		if d, ok := m(in); ok {
			return d
		}
	}
	d := in.decision(IntentPlaceQuery)
	d.PlaceQuery = normalized
	return d
}

func detectLanguage(text string) Language {
	hasArabic := containsArabic(text)
	switch {
	case hasArabic && containsLatin(text):
		return LanguageMixed
	case hasArabic:
		return LanguageArabic
	default:
		return LanguageEnglish
	}
}

// responseLanguage answers in Arabic whenever Arabic script is present and in English for
// Latin text. Messages with no letters at all keep the previous turn's language.
func responseLanguage(text string, lang Language, state ConversationState) ResponseLang {
	switch {
	case lang == LanguageArabic || lang == LanguageMixed:
		return ResponseArabic
	case containsLatin(text):
		return ResponseEnglish
	case state.LastLang != "":
		return state.LastLang
	default:
		return ResponseEnglish
	}
}

func matchDirections(in routeInput) (RouteDecision, bool) {
	for _, re := range []*regexp.Regexp{directionsENRe, directionsARRe} {
		m := re.FindStringSubmatch(in.normalized)
		if m == nil {
			continue
		}
		origin, destination := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if origin == "" || destination == "" {
			continue
		}
		d := in.decision(IntentDirections)
		d.OriginQuery = origin
		d.DestinationQuery = destination
		return d, true
	}
	return RouteDecision{}, false
}

func matchShortFollowUp(in routeInput) (RouteDecision, bool) {
	if _, ok := shortFollowUps[strings.ToLower(in.normalized)]; !ok {
		return RouteDecision{}, false
	}
	if in.state.LastPlaceQuery == "" {
		return in.clarify(), true
	}
	d := in.decision(IntentPlaceQuery)
	d.PlaceQuery = in.state.LastPlaceQuery
	return d, true
}

func matchTooShort(minRunes int) matcher {
	return func(in routeInput) (RouteDecision, bool) {
		if utf8.RuneCountInString(in.normalized) >= minRunes || in.state.LastPlaceQuery != "" {
			return RouteDecision{}, false
		}
		return in.clarify(), true
	}
}

func matchReviewQuery(in routeInput) (RouteDecision, bool) {
	if !containsAny(in.folded, reviewQueryMarkers) {
		return RouteDecision{}, false
	}
	return in.decision(IntentReviewQuery), true
}

func matchReviewSubmit(in routeInput) (RouteDecision, bool) {
	if !containsAny(in.folded, reviewSubmitMarkers) {
		return RouteDecision{}, false
	}
	return in.decision(IntentReviewSubmit), true
}

func matchFacility(in routeInput) (RouteDecision, bool) {
	if !containsAny(in.folded, facilityKeywords) {
		return RouteDecision{}, false
	}
	d := in.decision(IntentFacilityQuery)
	d.PlaceQuery = in.normalized
	return d, true
}

func matchBootcamp(in routeInput) (RouteDecision, bool) {
	if !bootcampENRe.MatchString(in.normalized) && !containsAny(in.folded, bootcampKeywordsAR) {
		return RouteDecision{}, false
	}
	d := in.decision(IntentBootcampQuery)
	d.PlaceQuery = in.normalized
	return d, true
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func foldAll(words ...string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = foldForMatch(w)
	}
	return out
}

func toSet(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
