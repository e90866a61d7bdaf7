package chat

import (
	"context"
	"strings"
)

type keywordRule struct {
	keywords []string
	answer   string
}

// KeywordStrategy answers from a local lookup table. The first rule with a
// matching keyword wins; unmatched questions get general 3R tips.
type KeywordStrategy struct {
	rules         []keywordRule
	defaultAnswer string
}

// NewKeywordStrategy returns the built-in answer table
func NewKeywordStrategy() *KeywordStrategy {
	return &KeywordStrategy{
		rules: []keywordRule{
			{
				keywords: []string{"baterai"},
				answer: "🔋 Baterai bekas termasuk limbah B3, jangan dibuang ke tong sampah biasa ya!\n\n" +
					"1. Simpan di wadah kering tertutup\n" +
					"2. Lakban kedua kutubnya\n" +
					"3. Setorkan ke drop box e-waste atau bank sampah terdekat",
			},
			{
				keywords: []string{"styrofoam"},
				answer: "🥡 Styrofoam sulit didaur ulang dan hampir tidak diterima bank sampah. " +
					"Cara terbaik adalah menghindarinya: bawa wadah sendiri saat membeli makanan. " +
					"Yang sudah terlanjur ada bisa dipakai ulang untuk pot semai atau bahan kerajinan.",
			},
			{
				keywords: []string{"kompos", "organik", "sisa makanan"},
				answer: "🌱 Ide kompos sederhana:\n\n" +
					"1. Siapkan ember berlubang atau keranjang takakura\n" +
					"2. Campur sisa sayur/buah (hijau) dengan daun kering/kardus sobek (cokelat) 1:2\n" +
					"3. Aduk tiap 3 hari, jaga tetap lembap seperti spons diperas\n" +
					"4. Dalam 4 sampai 6 minggu kompos siap dipakai untuk tanaman!",
			},
			{
				keywords: []string{"minyak", "jelantah"},
				answer: "🛢️ Minyak jelantah jangan dibuang ke saluran air! Tampung di botol bekas, " +
					"lalu setorkan ke bank sampah atau pengepul. Minyak ini bisa diolah jadi biodiesel atau sabun.",
			},
			{
				keywords: []string{"elektronik", "e-waste", "hp bekas"},
				answer: "📱 Sampah elektronik mengandung logam berat. Kumpulkan terpisah lalu serahkan ke " +
					"program pengumpulan e-waste, toko servis resmi, atau bank sampah yang menerima elektronik.",
			},
			{
				keywords: []string{"plastik", "botol"},
				answer: "♻️ Plastik: bilas, keringkan, lalu pipihkan botol agar hemat tempat. " +
					"Pisahkan tutup dari botolnya dan cek kode daur ulang di bawah kemasan. " +
					"PET (1) dan HDPE (2) paling laku di bank sampah!",
			},
			{
				keywords: []string{"kertas", "kardus", "koran"},
				answer: "📦 Kertas dan kardus harus kering dan bebas minyak. Lipat rapi, ikat, " +
					"dan setorkan ke bank sampah. Kertas berminyak lebih cocok masuk kompos.",
			},
			{
				keywords: []string{"bank sampah"},
				answer: "🏦 Bank sampah menampung sampah terpilah dan menukarnya dengan tabungan. " +
					"Tanyakan ke pengurus RT/RW lokasi bank sampah terdekat dan jadwal penimbangannya.",
			},
		},
		defaultAnswer: "🌍 Tips 3R untuk mulai hari ini:\n\n" +
			"✨ Reduce: kurangi barang sekali pakai\n" +
			"✨ Reuse: pakai ulang wadah dan tas belanja\n" +
			"✨ Recycle: pilah organik dan anorganik sejak dari rumah\n\n" +
			"Laporkan sampahmu di EcoHeroes untuk dapat poin! 🚀",
	}
}

func (s *KeywordStrategy) Name() string { return "keyword" }

// Reply never fails
func (s *KeywordStrategy) Reply(_ context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	for _, rule := range s.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.answer, nil
			}
		}
	}
	return s.defaultAnswer, nil
}
