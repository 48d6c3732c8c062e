package baseline

// cdoBaselines is the per-district average daily waste in kilograms from
// the 2020 city solid-waste survey (population x 0.42 kg per capita).
var cdoBaselines = map[string]float64{
	"Agusan":       7996.38,
	"Baikingon":    1209.18,
	"Balubal":      2945.46,
	"Balulang":     17726.10,
	"Barangay 1":   70.56,
	"Barangay 2":   21.00,
	"Barangay 3":   39.06,
	"Barangay 4":   28.56,
	"Barangay 5":   14.28,
	"Barangay 6":   13.86,
	"Barangay 7":   228.48,
	"Barangay 8":   37.80,
	"Barangay 9":   54.60,
	"Barangay 10":  233.94,
	"Barangay 11":  68.04,
	"Barangay 12":  107.94,
	"Barangay 13":  405.30,
	"Barangay 14":  147.42,
	"Barangay 15":  775.74,
	"Barangay 16":  10.50,
	"Barangay 17":  864.36,
	"Barangay 18":  532.98,
	"Barangay 19":  95.34,
	"Barangay 20":  33.60,
	"Barangay 21":  152.46,
	"Barangay 22":  1396.08,
	"Barangay 23":  393.12,
	"Barangay 24":  254.94,
	"Barangay 25":  277.62,
	"Barangay 26":  510.30,
	"Barangay 27":  672.42,
	"Barangay 28":  207.06,
	"Barangay 29":  199.92,
	"Barangay 30":  284.76,
	"Barangay 31":  241.50,
	"Barangay 32":  332.64,
	"Barangay 33":  35.28,
	"Barangay 34":  222.18,
	"Barangay 35":  840.84,
	"Barangay 36":  187.74,
	"Barangay 37":  76.02,
	"Barangay 38":  20.16,
	"Barangay 39":  7.14,
	"Barangay 40":  142.38,
	"Bayabas":      5876.22,
	"Bayanga":      1428.84,
	"Besigan":      714.00,
	"Bonbon":       4609.92,
	"Bugo":         13116.18,
	"Bulua":        14866.74,
	"Camaman-an":   14799.96,
	"Canitoan":     14385.00,
	"Carmen":       32657.52,
	"Consolacion":  3946.32,
	"Cugman":       9856.56,
	"Dansolihon":   2606.52,
	"F.S Catanico": 992.88,
	"Gusa":         12169.08,
	"Indahag":      7489.02,
	"Iponan":       11558.82,
	"Kauswagan":    16900.38,
	"Lapasan":      16478.28,
	"Lumbia":       13231.68,
	"Macabalan":    8216.04,
	"Macasandig":   9758.70,
	"Mambuaya":     2504.46,
	"Nazareth":     2927.82,
	"Pagalungan":   1012.20,
	"Pagatpat":     5462.94,
	"Patag":        7535.22,
	"Pigsag-an":    599.76,
	"Puerto":       5533.08,
	"Puntod":       7885.50,
	"San Simon":    689.64,
	"Tablon":       10322.76,
	"Taglimao":     584.22,
	"Tagpangi":     1185.66,
	"Tignapoloan":  2360.82,
	"Tuburan":      582.96,
	"Tumpagon":     968.10,
}
