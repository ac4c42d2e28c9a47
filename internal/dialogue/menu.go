package dialogue

import "github.com/shopassist/shopassist/internal/catalog"

// Choice is one quick-reply option. Value is what the user sends back.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Menu is a prompt with its quick-reply options.
type Menu struct {
	Prompt  string   `json:"prompt"`
	Choices []Choice `json:"choices"`
}

const (
	PromptCategory = "Please choose a category:"
	PromptStyle    = "Please choose a style:"
	PromptGender   = "Please choose gender:"

	// ProductsIntro precedes a product carousel.
	ProductsIntro = "Here are the products based on your search:"
)

// AllStyle opens the style menu from the category menu.
const AllStyle = "all style"

var labels = map[string]string{
	AllStyle:                   "ALL Style",
	catalog.CategoryBestSellers: "Best Sellers",
	catalog.CategoryNewArrival:  "New Arrival",
	catalog.CategoryExclusives:  "Exclusives",
	catalog.StyleChuck70:        "Chuck 70",
	catalog.StyleClassicChuck:   "Classic Chuck",
	catalog.StyleSport:          "Sport",
	catalog.StyleElevation:      "Elevation",
	catalog.GenderMen:           "Men",
	catalog.GenderWomen:         "Women",
	catalog.GenderUnisex:        "Unisex",
	catalog.StyleGenderMen:      "Men",
	catalog.StyleGenderWomen:    "Women",
	catalog.StyleGenderUnisex:   "Unisex",
}

func choices(values ...string) []Choice {
	out := make([]Choice, 0, len(values))
	for _, v := range values {
		out = append(out, Choice{Label: labels[v], Value: v})
	}
	return out
}

// CategoryMenu is the first menu of the flow.
func CategoryMenu() Menu {
	return Menu{
		Prompt:  PromptCategory,
		Choices: choices(append([]string{AllStyle}, catalog.Categories()...)...),
	}
}

// StyleMenu lists the styles under "all style".
func StyleMenu() Menu {
	return Menu{Prompt: PromptStyle, Choices: choices(catalog.Styles()...)}
}

// StyleGenderMenu is the gender menu after a style pick.
func StyleGenderMenu() Menu {
	return Menu{Prompt: PromptGender, Choices: choices(catalog.StyleGenders()...)}
}

// CategoryGenderMenu is the gender menu after a category pick.
func CategoryGenderMenu(category string) Menu {
	return Menu{Prompt: PromptGender, Choices: choices(catalog.CategoryGenders(category)...)}
}
