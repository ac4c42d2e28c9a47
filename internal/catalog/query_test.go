package catalog

import "testing"

func TestStyleFlowURLs(t *testing.T) {
	tests := []struct {
		style, gender, want string
	}{
		{StyleChuck70, StyleGenderWomen, "https://www.converse.co.th/chuck-70.html?gender=61"},
		{StyleChuck70, StyleGenderMen, "https://www.converse.co.th/chuck-70.html?gender=62"},
		{StyleClassicChuck, StyleGenderUnisex, "https://www.converse.co.th/classic-chuck.html?gender=63"},
		{StyleSport, StyleGenderMen, "https://www.converse.co.th/sport.html?gender=62"},
		{StyleElevation, StyleGenderWomen, "https://www.converse.co.th/women/shoes/platform.html?gender=61"},
	}

	for _, tt := range tests {
		q, ok := StyleQuery(tt.style)
		if !ok {
			t.Fatalf("StyleQuery(%q) not found", tt.style)
		}
		q, ok = q.WithStyleGender(tt.gender)
		if !ok {
			t.Fatalf("WithStyleGender(%q) rejected", tt.gender)
		}
		if got := q.URL(); got != tt.want {
			t.Errorf("%s + %s = %q, want %q", tt.style, tt.gender, got, tt.want)
		}
	}
}

func TestCategoryFlowURLs(t *testing.T) {
	tests := []struct {
		category, gender, want string
	}{
		{CategoryBestSellers, GenderMen, "https://www.converse.co.th/men/trending.html?cat=13&gender=62"},
		{CategoryNewArrival, GenderWomen, "https://www.converse.co.th/men/trending.html?cat=14&gender=61"},
		{CategoryExclusives, GenderUnisex, "https://www.converse.co.th/men/trending.html?cat=15&gender=63"},
	}

	for _, tt := range tests {
		q, ok := CategoryQuery(tt.category)
		if !ok {
			t.Fatalf("CategoryQuery(%q) not found", tt.category)
		}
		q, ok = q.WithCategoryGender(tt.gender)
		if !ok {
			t.Fatalf("WithCategoryGender(%q) rejected", tt.gender)
		}
		if got := q.URL(); got != tt.want {
			t.Errorf("%s + %s = %q, want %q", tt.category, tt.gender, got, tt.want)
		}
	}
}

func TestGenderTablesAreNotInterchangeable(t *testing.T) {
	q, _ := StyleQuery(StyleSport)
	if _, ok := q.WithStyleGender(GenderMen); ok {
		t.Error("style flow must not accept the category gender keys")
	}
	c, _ := CategoryQuery(CategoryExclusives)
	if _, ok := c.WithCategoryGender(StyleGenderMen); ok {
		t.Error("category flow must not accept the style gender keys")
	}
}

func TestGenderWithoutBaseRejected(t *testing.T) {
	if _, ok := (Query{}).WithCategoryGender(GenderMen); ok {
		t.Error("gender without a base URL must be rejected")
	}
	if _, ok := (Query{}).WithStyleGender(StyleGenderMen); ok {
		t.Error("gender without a base URL must be rejected")
	}
}

func TestUnknownKeys(t *testing.T) {
	if _, ok := StyleQuery("air max"); ok {
		t.Error("unknown style accepted")
	}
	if _, ok := CategoryQuery("sale"); ok {
		t.Error("unknown category accepted")
	}
	if _, ok := StyleQuery(CategoryBestSellers); ok {
		t.Error("category key accepted as a style")
	}
	if _, ok := CategoryQuery(StyleSport); ok {
		t.Error("style key accepted as a category")
	}
}

func TestNewArrivalGenders(t *testing.T) {
	got := CategoryGenders(CategoryNewArrival)
	if len(got) != 2 || got[0] != GenderWomen || got[1] != GenderUnisex {
		t.Fatalf("new arrival genders = %v, want [women unisex]", got)
	}
	for _, c := range []string{CategoryBestSellers, CategoryExclusives} {
		if n := len(CategoryGenders(c)); n != 3 {
			t.Errorf("%s offers %d genders, want 3", c, n)
		}
	}
	if CategoryGenders("sale") != nil {
		t.Error("unknown category should offer no genders")
	}
}

func TestReverseLookup(t *testing.T) {
	for _, c := range Categories() {
		q, _ := CategoryQuery(c)
		if got, ok := CategoryOf(q.BaseURL); !ok || got != c {
			t.Errorf("CategoryOf(%q) = %q, %v", q.BaseURL, got, ok)
		}
	}
	for _, s := range Styles() {
		q, _ := StyleQuery(s)
		if got, ok := StyleOf(q.BaseURL); !ok || got != s {
			t.Errorf("StyleOf(%q) = %q, %v", q.BaseURL, got, ok)
		}
	}
	if _, ok := CategoryOf(SiteURL + "/chuck-70.html"); ok {
		t.Error("style URL resolved as category")
	}
}
