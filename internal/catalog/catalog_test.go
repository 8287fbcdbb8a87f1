package catalog

import "testing"

func TestIsAccessibleEmptyProfile(t *testing.T) {
	d := Destination{Accessibility: Accessibility{}}
	if !d.IsAccessible(nil) {
		t.Fatal("empty profile must pass every destination")
	}
	if !d.IsAccessible(Profile{}) {
		t.Fatal("empty profile must pass every destination")
	}
}

func TestIsAccessibleAllFlagsRequired(t *testing.T) {
	d := Destination{Accessibility: Accessibility{Vision: true, Wheelchair: true}}

	p, err := NewProfile(FlagVision, FlagWheelchair)
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsAccessible(p) {
		t.Fatal("destination supporting all requested flags rejected")
	}

	p, err = NewProfile(FlagVision, FlagHearing)
	if err != nil {
		t.Fatal(err)
	}
	if d.IsAccessible(p) {
		t.Fatal("destination missing a requested flag accepted")
	}
}

func TestIsAccessibleMonotonicity(t *testing.T) {
	// Adding a flag to the profile can only shrink the accessible set.
	d := Destination{Accessibility: Accessibility{Vision: true, Hearing: true}}

	narrow, _ := NewProfile(FlagVision)
	wide, _ := NewProfile(FlagVision, FlagMental)
	if !d.IsAccessible(narrow) {
		t.Fatal("narrow profile rejected")
	}
	if d.IsAccessible(wide) && !d.IsAccessible(narrow) {
		t.Fatal("widening the profile admitted a destination the narrow one rejected")
	}
}

func TestNewProfileRejectsUnknownFlag(t *testing.T) {
	if _, err := NewProfile(Flag("teleport")); err == nil {
		t.Fatal("unknown flag accepted")
	}
}

func TestRepositoryLoadsEmbeddedData(t *testing.T) {
	r, err := NewRepository()
	if err != nil {
		t.Fatal(err)
	}
	if r.Count() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	d, err := r.Get("guz-tosp-tokareva-70a")
	if err != nil {
		t.Fatal(err)
	}
	if d.Category != CategoryHealthcare {
		t.Fatalf("category = %q", d.Category)
	}
	if !d.Accessibility.Wheelchair {
		t.Fatal("known wheelchair-accessible destination lost its flag")
	}

	if _, err := r.Get("no-such-object"); err != ErrDestinationNotFound {
		t.Fatalf("missing id error = %v", err)
	}
}

func TestRepositoryFilterCategories(t *testing.T) {
	r, err := NewRepository()
	if err != nil {
		t.Fatal(err)
	}

	all := r.FilterCategories(nil)
	if len(all) != r.Count() {
		t.Fatalf("empty filter returned %d of %d", len(all), r.Count())
	}

	healthcare := r.FilterCategories(map[Category]bool{CategoryHealthcare: true})
	if len(healthcare) == 0 || len(healthcare) >= len(all) {
		t.Fatalf("healthcare filter returned %d of %d", len(healthcare), len(all))
	}
	for _, d := range healthcare {
		if d.Category != CategoryHealthcare {
			t.Fatalf("filter leaked category %q", d.Category)
		}
	}
}

func TestRepositoryRejectsBadData(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"unknown category", `[{"id":"x","name":"X","category":"transport"}]`},
		{"empty id", `[{"id":"","name":"X","category":"culture"}]`},
		{"duplicate id", `[{"id":"x","name":"X","category":"culture"},{"id":"x","name":"Y","category":"culture"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRepositoryFromJSON([]byte(tc.data)); err == nil {
				t.Fatal("invalid data accepted")
			}
		})
	}
}
