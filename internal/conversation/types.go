package conversation

import "github.com/wolfman30/campus-guide-ai/internal/retrieval"

// Intent is the classified purpose of a turn. Exactly one per turn.
type Intent string

const (
	IntentPlaceQuery    Intent = "PlaceQuery"
	IntentBootcampQuery Intent = "BootcampQuery"
	IntentFacilityQuery Intent = "FacilityQuery"
	IntentDirections    Intent = "Directions"
	IntentReviewSubmit  Intent = "ReviewSubmit"
	IntentReviewQuery   Intent = "ReviewQuery"
	IntentClarify       Intent = "Clarify"
	IntentTimeQuery     Intent = "TimeQuery"
	IntentGeneralQuery  Intent = "GeneralQuery"
)

func (i Intent) needsRetrieval() bool {
	switch i {
	case IntentPlaceQuery, IntentFacilityQuery, IntentBootcampQuery, IntentDirections:
		return true
	}
	return false
}

// Language is the script detected in the incoming message.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageMixed   Language = "mixed"
)

// ResponseLang is the language the answer is produced in.
type ResponseLang string

const (
	ResponseEnglish ResponseLang = "en"
	ResponseArabic  ResponseLang = "ar"
)

func (r ResponseLang) retrievalLanguage() retrieval.Language {
	if r == ResponseArabic {
		return retrieval.Arabic
	}
	return retrieval.English
}

// RouteDecision is the router's verdict for one message. When NeedsClarification is set
// ClarificationQuestion is non-empty and the turn ends without retrieval or synthesis.
type RouteDecision struct {
	Lang                  Language
	ResponseLang          ResponseLang
	Intent                Intent
	PlaceQuery            string
	OriginQuery           string
	DestinationQuery      string
	NeedsClarification    bool
	ClarificationQuestion string
}
