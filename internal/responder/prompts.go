package responder

import (
	"fmt"
	"strings"
)

// formattingRules is appended to every domain prompt so generated answers
// stay within the small markup subset the formatter understands.
const formattingRules = `Peraturan format jawapan:
- Guna tajuk Markdown ringkas (## Tajuk) untuk bahagian utama.
- Guna **tebal** untuk istilah penting dan *condong* untuk penekanan ringan.
- Guna "> " untuk petikan dalil atau rujukan.
- Guna senarai bernombor (1.) atau bertanda (-) untuk langkah dan poin.
- Jangan guna jadual, pautan, imej, atau HTML.`

// scoringPrompt instructs the model to reply with a bare relevance number.
func scoringPrompt(p Profile) string {
	return fmt.Sprintf(`You rate topical relevance for a specialist assistant.

Specialist topics: %s
Specialist keywords: %s

Rate how relevant the user's message is to this specialist's domain.
Respond with ONLY a single number between 0.0 and 1.0. No words, no explanation.`,
		strings.Join(p.Topics, ", "),
		strings.Join(p.Keywords, ", "))
}

// synthesisPrompt drives the final merge call over the combined
// perspectives document. The answer must mirror the question's language and
// follow the fixed six-section structure.
const synthesisPrompt = `Anda ialah penyelaras yang menggabungkan jawapan beberapa pakar kepada satu jawapan menyeluruh.

Anda akan menerima satu soalan dan jawapan berlabel daripada beberapa pakar.
Jawab dalam bahasa yang sama dengan soalan asal (Bahasa Melayu atau Inggeris).

Susun jawapan anda dalam enam bahagian berikut, setiap satu dengan tajuk "## ":
1. Ringkasan Perspektif — ringkaskan pandangan setiap pakar.
2. Titik Persetujuan — perkara yang disepakati semua pakar.
3. Pertimbangan Utama — perbezaan pendapat dan perkara yang perlu diteliti.
4. Konteks Tempatan — nota khusus untuk amalan di Malaysia.
5. Pelaksanaan Praktikal — langkah konkrit yang boleh diambil.
6. Kesimpulan Menyeluruh — rumusan akhir yang seimbang.

` + formattingRules
