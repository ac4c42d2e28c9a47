package catalog

// SiteURL is the catalog site every query is built against.
const SiteURL = "https://www.converse.co.th"

// Style keys offered under "all style".
const (
	StyleChuck70      = "chuck 70"
	StyleClassicChuck = "classic chuck"
	StyleSport        = "sport"
	StyleElevation    = "elevation"
)

// Category keys offered on the first menu.
const (
	CategoryBestSellers = "best sellers"
	CategoryNewArrival  = "new arrival"
	CategoryExclusives  = "exclusives"
)

// Gender keys. The style flow uses the "for all style" variants so the
// two gender menus never share a trigger.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"

	StyleGenderMen    = "men for all style"
	StyleGenderWomen  = "women for all style"
	StyleGenderUnisex = "unisex for all style"
)

var styleURLs = map[string]string{
	StyleChuck70:      SiteURL + "/chuck-70.html",
	StyleClassicChuck: SiteURL + "/classic-chuck.html",
	StyleSport:        SiteURL + "/sport.html",
	StyleElevation:    SiteURL + "/women/shoes/platform.html",
}

var categoryURLs = map[string]string{
	CategoryBestSellers: SiteURL + "/men/trending.html?cat=13",
	CategoryNewArrival:  SiteURL + "/men/trending.html?cat=14",
	CategoryExclusives:  SiteURL + "/men/trending.html?cat=15",
}

// Style pages have no query string yet, so gender is the first parameter.
var styleGenderParams = map[string]string{
	StyleGenderMen:    "?gender=62",
	StyleGenderWomen:  "?gender=61",
	StyleGenderUnisex: "?gender=63",
}

// Category pages already carry ?cat=, so gender is appended with &.
var categoryGenderParams = map[string]string{
	GenderMen:    "&gender=62",
	GenderWomen:  "&gender=61",
	GenderUnisex: "&gender=63",
}

// Query is an in-flight catalog search built across dialogue turns.
type Query struct {
	BaseURL     string `json:"base_url"`
	GenderParam string `json:"gender_param,omitempty"`
}

// URL renders the full retrieval URL.
func (q Query) URL() string {
	return q.BaseURL + q.GenderParam
}

// StyleQuery starts a query for a style key.
func StyleQuery(style string) (Query, bool) {
	u, ok := styleURLs[style]
	if !ok {
		return Query{}, false
	}
	return Query{BaseURL: u}, true
}

// CategoryQuery starts a query for a category key.
func CategoryQuery(category string) (Query, bool) {
	u, ok := categoryURLs[category]
	if !ok {
		return Query{}, false
	}
	return Query{BaseURL: u}, true
}

// WithStyleGender appends a style-flow gender ("... for all style").
func (q Query) WithStyleGender(gender string) (Query, bool) {
	p, ok := styleGenderParams[gender]
	if !ok || q.BaseURL == "" {
		return q, false
	}
	q.GenderParam = p
	return q, true
}

// WithCategoryGender appends a category-flow gender.
func (q Query) WithCategoryGender(gender string) (Query, bool) {
	p, ok := categoryGenderParams[gender]
	if !ok || q.BaseURL == "" {
		return q, false
	}
	q.GenderParam = p
	return q, true
}


// Styles lists the style keys in menu order.
func Styles() []string {
	return []string{StyleChuck70, StyleClassicChuck, StyleSport, StyleElevation}
}

// Categories lists the category keys in menu order.
func Categories() []string {
	return []string{CategoryBestSellers, CategoryNewArrival, CategoryExclusives}
}

// StyleGenders lists the gender keys of the style flow.
func StyleGenders() []string {
	return []string{StyleGenderMen, StyleGenderWomen, StyleGenderUnisex}
}

// New arrivals are only listed for women and unisex on the site.
var categoryGenders = map[string][]string{
	CategoryBestSellers: {GenderMen, GenderWomen, GenderUnisex},
	CategoryNewArrival:  {GenderWomen, GenderUnisex},
	CategoryExclusives:  {GenderMen, GenderWomen, GenderUnisex},
}

// CategoryGenders lists the gender keys offered for a category, or nil
// for unknown categories.
func CategoryGenders(category string) []string {
	g := categoryGenders[category]
	if g == nil {
		return nil
	}
	return append([]string(nil), g...)
}

// CategoryOf reverses CategoryQuery for a stored base URL.
func CategoryOf(baseURL string) (string, bool) {
	for k, u := range categoryURLs {
		if u == baseURL {
			return k, true
		}
	}
	return "", false
}

// StyleOf reverses StyleQuery for a stored base URL.
func StyleOf(baseURL string) (string, bool) {
	for k, u := range styleURLs {
		if u == baseURL {
			return k, true
		}
	}
	return "", false
}
