package responder

// Builtins returns the five built-in specialist profiles in their declared
// order. The order matters: the router breaks score ties by it, and the
// synthesizer labels fan-out answers by it.
func Builtins() []Profile {
	return []Profile{
		{
			Name:    "fatwa",
			Label:   "Perspektif Fatwa",
			Command: "fatwa",
			Topics: []string{
				"hukum-hakam Islam", "fatwa semasa", "halal dan haram", "dalil dan mazhab",
			},
			Keywords: []string{
				"hukum", "fatwa", "halal", "haram", "harus", "makruh",
				"wajib", "sunat", "dalil", "mazhab", "syariah",
			},
			Prompt: `Anda ialah pembantu yang menerangkan hukum-hakam Islam mengikut pandangan mazhab Syafie seperti yang diamalkan di Malaysia. Terangkan hukum dengan dalil ringkas, sebut pandangan mazhab lain jika berbeza, dan ingatkan pengguna supaya merujuk mufti atau jabatan agama negeri untuk kes peribadi.`,
			Threshold: 0.65,
		},
		{
			Name:    "ibadah",
			Label:   "Perspektif Ibadah",
			Command: "ibadah",
			Topics: []string{
				"solat dan puasa", "haji dan umrah", "penyucian dan wuduk", "doa dan zikir",
			},
			Keywords: []string{
				"solat", "sembahyang", "puasa", "wuduk", "haji", "umrah",
				"doa", "zikir", "qada", "tayammum", "azan", "jumaat",
			},
			Prompt: `Anda ialah pembantu yang membimbing amalan ibadah harian: solat, puasa, haji, umrah, penyucian dan doa. Beri panduan langkah demi langkah yang praktikal, dengan rukun dan syarat yang jelas, mengikut amalan biasa di Malaysia.`,
			Threshold: 0.65,
		},
		{
			Name:    "muamalat",
			Label:   "Perspektif Muamalat",
			Command: "muamalat",
			Topics: []string{
				"kewangan Islam", "riba dan pelaburan", "zakat harta", "jual beli dan hutang",
			},
			Keywords: []string{
				"riba", "faedah", "bank", "pinjaman", "pelaburan", "saham",
				"takaful", "insurans", "zakat", "jual beli", "hutang", "gadai",
			},
			Prompt: `Anda ialah pembantu kewangan Islam: riba, pelaburan patuh syariah, zakat harta, takaful, jual beli dan hutang. Terangkan konsep dengan contoh mudah dalam konteks Malaysia dan sebut institusi berkaitan (contohnya majlis zakat negeri) apabila sesuai. Ini bukan nasihat kewangan berlesen.`,
			Threshold: 0.65,
		},
		{
			Name:    "keluarga",
			Label:   "Perspektif Kekeluargaan",
			Command: "keluarga",
			Topics: []string{
				"munakahat", "perkahwinan dan perceraian", "nafkah dan faraid", "didikan anak",
			},
			Keywords: []string{
				"nikah", "kahwin", "cerai", "talak", "rujuk", "nafkah",
				"faraid", "wasiat", "mahar", "wali", "anak", "keluarga",
			},
			Prompt: `Anda ialah pembantu bagi soal kekeluargaan Islam: perkahwinan, perceraian, nafkah, faraid dan didikan anak. Jawab dengan timbang rasa dan ingatkan pengguna bahawa urusan rasmi perlu melalui mahkamah syariah atau pejabat agama negeri.`,
			Threshold: 0.65,
		},
		{
			Name:    "sirah",
			Label:   "Perspektif Sirah",
			Command: "sirah",
			Topics: []string{
				"sirah nabawiyah", "sejarah Islam", "kisah para sahabat", "tamadun Islam",
			},
			Keywords: []string{
				"sirah", "sejarah", "nabi", "rasul", "sahabat", "khalifah",
				"perang", "hijrah", "tamadun", "kisah",
			},
			Prompt: `Anda ialah pencerita sirah dan sejarah Islam. Ceritakan peristiwa dengan tepat, sebut sumber klasik apabila boleh, dan kaitkan pengajaran sejarah dengan kehidupan hari ini secara ringkas.`,
			Threshold: 0.65,
		},
	}
}

// SynthesisCommand is the command token that routes straight to the
// synthesizer, alongside the per-specialist commands.
const SynthesisCommand = "tanya"
