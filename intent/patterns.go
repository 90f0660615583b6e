package intent

// synonymGroup ties a canonical keyword to the words that stand for it.
type synonymGroup struct {
	key   string
	words []string
}

// synonyms is the static synonym table. Order matters for Expand.
var synonyms = []synonymGroup{
	// departments
	{"it", []string{"bilgi işlem", "bilgi_işlem", "bilgisayar", "teknik", "teknoloji", "yazılım"}},
	{"satış", []string{"sales", "pazarlama", "satış_pazarlama", "ticaret"}},
	{"muhasebe", []string{"mali_işler", "mali işler", "finans", "accounting"}},
	{"ik", []string{"insan_kaynakları", "insan kaynakları", "hr", "personel", "human_resources"}},

	// actions
	{"listele", []string{"göster", "say", "çıkar", "ver", "bul", "getir", "show", "list"}},
	{"kaç", []string{"ne_kadar", "ne kadar", "how_many", "count", "sayı"}},
	{"hangi", []string{"nerede", "where", "which", "kim", "who"}},

	// objects
	{"çalışan", []string{"personel", "employee", "kişi", "people", "worker", "staff"}},
	{"departman", []string{"birim", "department", "bölüm", "unit"}},
	{"maaş", []string{"salary", "ücret", "gelir", "para", "wage"}},
}

var (
	departmentKeywords = []string{"it", "satış", "muhasebe", "ik"}
	actionKeywords     = []string{"listele", "kaç", "hangi", "göster"}
	nameStopwords      = map[string]struct{}{"hangi": {}, "kaç": {}, "tüm": {}}
)

// IntentPatterns is an intent together with its token patterns.
type IntentPatterns struct {
	Intent   string
	Patterns [][]string
}

// BuiltinPatterns returns a copy of the built-in intent table in
// evaluation order.
func BuiltinPatterns() []IntentPatterns {
	out := make([]IntentPatterns, len(builtinPatterns))
	for i, ip := range builtinPatterns {
		out[i] = IntentPatterns{Intent: ip.Intent, Patterns: clonePatterns(ip.Patterns)}
	}
	return out
}

var builtinPatterns = []IntentPatterns{
	{"list_all_employees", [][]string{
		{"listele", "çalışan"}, {"göster", "personel"}, {"hepsi", "çalışan"},
		{"tüm", "çalışan"}, {"all", "employee"},
	}},
	{"count_employees", [][]string{
		{"kaç", "çalışan"}, {"ne_kadar", "personel"}, {"how_many", "employee"},
	}},
	{"list_departments", [][]string{
		{"listele", "departman"}, {"göster", "birim"}, {"departman", "neler"},
	}},
	{"department_analysis", [][]string{
		{"departman", "analiz"}, {"birim", "istatistik"}, {"departman", "grafik"},
	}},
	{"salary_analysis", [][]string{
		{"maaş", "analiz"}, {"salary", "average"}, {"ortalama", "maaş"},
	}},
}

func clonePatterns(patterns [][]string) [][]string {
	out := make([][]string, len(patterns))
	for i, p := range patterns {
		out[i] = append([]string(nil), p...)
	}
	return out
}

// synonymsOf returns the synonym words listed under key.
func synonymsOf(key string) []string {
	for _, g := range synonyms {
		if g.key == key {
			return g.words
		}
	}
	return nil
}
