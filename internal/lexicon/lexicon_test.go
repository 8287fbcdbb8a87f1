package lexicon

import (
	"testing"

	"github.com/socnav/socnav/internal/catalog"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"  к врачу  ", []string{"врачу"}},
		{"хочу записаться на приём к стоматологу!", []string{"хочу", "записаться", "приём", "стоматологу"}},
		{"в до по", nil},
		{"ул. М.Жукова, д.8-б", []string{"жукова"}},
	}
	for _, tc := range cases {
		got := Tokenize(tc.query)
		if len(got) != len(tc.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tc.query, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("Tokenize(%q) = %v, want %v", tc.query, got, tc.want)
			}
		}
	}
}

func TestVariants(t *testing.T) {
	if got := Variants("зуб"); len(got) != 1 || got[0] != "зуб" {
		t.Fatalf("short token variants = %v", got)
	}
	got := Variants("больница") // 8 runes: itself, minus one, minus two
	want := []string{"больница", "больниц", "больни"}
	if len(got) != len(want) {
		t.Fatalf("Variants = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Variants = %v, want %v", got, want)
		}
	}
}

func TestAnalyzeDentalQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("болят зубы")

	if !res.Intents[IntentDental] {
		t.Fatal("dental intent not detected")
	}
	if !res.Categories[catalog.CategoryHealthcare] {
		t.Fatal("healthcare category not detected")
	}
	if res.ForcesHealthcare() {
		t.Fatal("dental query must not force the healthcare override")
	}
}

func TestAnalyzeHeadacheQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("болит голова, куда пойти")

	if !res.Intents[IntentHeadache] {
		t.Fatal("headache intent not detected")
	}
	if !res.ForcesHealthcare() {
		t.Fatal("headache query must force healthcare")
	}
}

func TestAnalyzeClinicQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("хочу к врачу")

	if !res.Intents[IntentClinic] {
		t.Fatal("clinic intent not detected")
	}
	if !res.ForcesHealthcare() {
		t.Fatal("clinic query must force healthcare")
	}
}

func TestAnalyzeLibraryQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("где почитать книги")

	if !res.Intents[IntentLibrary] {
		t.Fatal("library intent not detected")
	}
	if !res.Categories[catalog.CategoryCulture] {
		t.Fatal("culture category not detected")
	}
	if res.Intents[IntentDental] {
		t.Fatal("spurious dental intent")
	}
}

func TestAnalyzeInflectedForm(t *testing.T) {
	// Inflected nominative form still maps onto the stemmed lexicon term.
	a := NewAnalyzer()
	res := a.Analyze("библиотека")
	if !res.Intents[IntentLibrary] || !res.Categories[catalog.CategoryCulture] {
		t.Fatalf("inflected library form not detected: %+v", res)
	}
}

func TestAnalyzeEmptyQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("   ")

	if !res.Empty() {
		t.Fatal("blank query not reported empty")
	}
	if len(res.Categories) != 0 || len(res.Intents) != 0 {
		t.Fatalf("blank query produced signals: %+v", res)
	}
}

func TestAnalyzeNeutralQuery(t *testing.T) {
	a := NewAnalyzer()
	res := a.Analyze("куда сходить вечером")
	if len(res.Categories) != 0 {
		t.Fatalf("neutral query detected categories: %v", res.Categories)
	}
	if res.ForcesHealthcare() {
		t.Fatal("neutral query forces healthcare")
	}
}
