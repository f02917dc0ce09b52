// Package trivial short-circuits casual conversational turns with canned
// replies so they never reach the generation service. Several categories
// (identity questions in particular) would otherwise score as topically
// relevant and trigger a completion call.
package trivial

import (
	"regexp"
	"strings"
	"time"
)

// Category identifies which canned-reply table entry matched.
type Category string

const (
	CategoryTimeGreeting Category = "time_greeting"
	CategoryGreeting     Category = "greeting"
	CategoryThanks       Category = "thanks"
	CategoryPing         Category = "ping"
	CategoryIdentity     Category = "identity"
	CategoryCapability   Category = "capability"
	CategoryStatus       Category = "status"
)

// Reply is a fixed canned response; no generation call is ever made for it.
type Reply struct {
	Category Category
	Text     string
}

// Matcher checks inbound text against the canned-reply table in a fixed
// priority order. The clock is injectable so greeting tests are deterministic.
type Matcher struct {
	now func() time.Time
}

func New() *Matcher {
	return &Matcher{now: time.Now}
}

// NewWithClock builds a Matcher with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Matcher {
	return &Matcher{now: now}
}

// whoAreYou tolerates the common shorthand spellings ("who r u").
var whoAreYou = regexp.MustCompile(`\bwho\s+(are|r)\s+(you|u)\b`)

var timeGreetings = []struct {
	phrase string
	reply  string
}{
	{"selamat pagi", "Selamat pagi! Semoga hari anda diberkati. Ada apa-apa yang boleh saya bantu?"},
	{"good morning", "Good morning! May your day be blessed. How can I help?"},
	{"selamat tengah hari", "Selamat tengah hari! Ada soalan untuk saya?"},
	{"selamat tengahari", "Selamat tengah hari! Ada soalan untuk saya?"},
	{"good afternoon", "Good afternoon! Is there anything I can help with?"},
	{"selamat petang", "Selamat petang! Ada apa-apa yang boleh saya bantu?"},
	{"good evening", "Good evening! Is there anything I can help with?"},
	{"selamat malam", "Selamat malam! Semoga tidur anda nyenyak. Ada soalan sebelum berehat?"},
	{"good night", "Good night! Rest well, and feel free to ask me anything tomorrow."},
}

var greetingExact = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hai": true, "helo": true,
	"salam": true, "salam semua": true,
}

var thanksPhrases = []string{
	"terima kasih", "thank you", "thanks", "syukran", "jazakallah",
}

var thanksExact = map[string]bool{"tq": true, "ty": true, "tk": true}

var pingExact = map[string]bool{
	"test": true, "testing": true, "ping": true, "tes": true,
}

var identityPhrases = []string{
	"who are you", "siapa awak", "siapa kamu", "siapa anda", "awak siapa", "kamu siapa",
}

var identityExact = map[string]bool{"siapa": true}

var capabilityPhrases = []string{
	"what can you do", "apa boleh buat", "boleh buat apa",
	"apa yang boleh", "macam mana guna", "how do i use",
}

var capabilityExact = map[string]bool{"help": true, "tolong": true}

var statusPhrases = []string{
	"are you there", "you there", "still there", "are you alive",
	"are you ok", "ada tak", "ada ke", "masih ada", "ada lagi tak",
}

const (
	greetingReplyMorning   = "Selamat pagi! Saya di sini, tanyalah apa-apa soalan."
	greetingReplyAfternoon = "Selamat tengah hari! Saya di sini, tanyalah apa-apa soalan."
	greetingReplyEvening   = "Selamat petang! Saya di sini, tanyalah apa-apa soalan."
	greetingReplyNight     = "Selamat malam! Saya di sini, tanyalah apa-apa soalan."

	thanksReply = "Sama-sama! Semoga bermanfaat. Feel free to ask anything else."
	pingReply   = "Ya, saya di sini dan berfungsi dengan baik."
	identityReply = "Saya Tok Ayah, pembantu digital untuk soal jawab agama dan kehidupan. " +
		"Saya boleh membantu dengan soalan fatwa, ibadah, muamalat, kekeluargaan dan sirah."
	capabilityReply = "Saya boleh menjawab soalan tentang fatwa, ibadah, muamalat (kewangan Islam), " +
		"kekeluargaan dan sirah. Sebut nama saya diikuti soalan anda, atau guna arahan seperti /fatwa atau /tanya."
	statusReply = "Saya ada dan sedia membantu, insya-Allah."
)

// Match checks text against every category in priority order and returns the
// canned reply for the first hit. Returns false when nothing matched and the
// caller should proceed to topical routing.
func (m *Matcher) Match(text string) (Reply, bool) {
	norm := normalize(text)
	if norm == "" {
		return Reply{}, false
	}

	for _, tg := range timeGreetings {
		if strings.Contains(norm, tg.phrase) {
			return Reply{Category: CategoryTimeGreeting, Text: tg.reply}, true
		}
	}

	if greetingExact[norm] || strings.Contains(norm, "assalamualaikum") ||
		strings.Contains(norm, "assalammualaikum") {
		return Reply{Category: CategoryGreeting, Text: m.greetingByHour()}, true
	}

	if thanksExact[norm] || containsAny(norm, thanksPhrases) {
		return Reply{Category: CategoryThanks, Text: thanksReply}, true
	}

	if pingExact[norm] {
		return Reply{Category: CategoryPing, Text: pingReply}, true
	}

	if identityExact[norm] || containsAny(norm, identityPhrases) || whoAreYou.MatchString(norm) {
		return Reply{Category: CategoryIdentity, Text: identityReply}, true
	}

	if capabilityExact[norm] || containsAny(norm, capabilityPhrases) {
		return Reply{Category: CategoryCapability, Text: capabilityReply}, true
	}

	if containsAny(norm, statusPhrases) {
		return Reply{Category: CategoryStatus, Text: statusReply}, true
	}

	return Reply{}, false
}

func (m *Matcher) greetingByHour() string {
	switch h := m.now().Hour(); {
	case h >= 5 && h < 12:
		return greetingReplyMorning
	case h >= 12 && h < 15:
		return greetingReplyAfternoon
	case h >= 15 && h < 19:
		return greetingReplyEvening
	default:
		return greetingReplyNight
	}
}

func normalize(text string) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(norm, " .!?")
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
