package domain

// Category is a static reference entity shared across all transactions. The
// set is seeded once at build time and never mutated or persisted per-user.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// DefaultCategories is the fixed category reference set.
var DefaultCategories = []Category{
	{ID: "cat-1", Name: "Food & Dining", Icon: "🍔", Color: "#f97316"},
	{ID: "cat-2", Name: "Transport", Icon: "🚗", Color: "#3b82f6"},
	{ID: "cat-3", Name: "Shopping", Icon: "🛍️", Color: "#a855f7"},
	{ID: "cat-4", Name: "Entertainment", Icon: "🎬", Color: "#ec4899"},
	{ID: "cat-5", Name: "Healthcare", Icon: "🏥", Color: "#ef4444"},
	{ID: "cat-6", Name: "Salary", Icon: "💰", Color: "#22c55e"},
	{ID: "cat-7", Name: "Investment", Icon: "📈", Color: "#14b8a6"},
	{ID: "cat-8", Name: "Other", Icon: "📦", Color: "#6b7280"},
}

// CategoryByID looks up a category in the static set.
func CategoryByID(id string) (Category, bool) {
	for _, c := range DefaultCategories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
