package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
	Count    int
}

// Summary is what the dashboard card shows.
type Summary struct {
	Total      Money
	Count      int
	Recent     []Expense // newest first
	More       int       // records not included in Recent
	ByCategory []CategoryAmount
}

// Summarize aggregates expenses, which must already be newest first.
// Categories appear in Categories order; unknown labels follow in order of
// first appearance. Categories without records are omitted.
func Summarize(expenses []Expense, recent int) Summary {
	if recent < 0 {
		recent = 0
	}
	s := Summary{Count: len(expenses)}

	byCat := make(map[Category]*CategoryAmount)
	var unknown []Category
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		ca, ok := byCat[e.Category]
		if !ok {
			ca = &CategoryAmount{Category: e.Category}
			byCat[e.Category] = ca
			if !e.Category.Valid() {
				unknown = append(unknown, e.Category)
			}
		}
		ca.Amount = ca.Amount.Add(e.Amount)
		ca.Count++
	}
	for _, c := range append(append([]Category(nil), Categories...), unknown...) {
		if ca, ok := byCat[c]; ok {
			s.ByCategory = append(s.ByCategory, *ca)
		}
	}

	n := min(recent, len(expenses))
	s.Recent = append([]Expense(nil), expenses[:n]...)
	s.More = len(expenses) - n
	return s
}
