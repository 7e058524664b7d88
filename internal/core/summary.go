package core

// Totals are the multiplier-scaled sums for one day.
type Totals struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
	Kcal    float64 `json:"kcal"`
}

// DaySummary compares a day's totals with the goal, when one is set.
type DaySummary struct {
	Date      Date    `json:"date"`
	Totals    Totals  `json:"totals"`
	MealCount int     `json:"meal_count"`
	Goal      *Goal   `json:"goal,omitempty"`
	Target    *Totals `json:"target,omitempty"`
	Remaining *Totals `json:"remaining,omitempty"`
}

// SumMeals adds up the scaled macros of meals. Energy is summed per row so
// it matches what each row displays.
func SumMeals(meals []Meal) Totals {
	var t Totals
	for _, m := range meals {
		scaled := m.Scaled()
		t.Protein += scaled.Protein
		t.Fat += scaled.Fat
		t.Carbs += scaled.Carbs
		t.Kcal += scaled.Kcal()
	}
	return t
}

// TotalsOf converts absolute macros into totals with derived energy.
func TotalsOf(m Macros) Totals {
	return Totals{Protein: m.Protein, Fat: m.Fat, Carbs: m.Carbs, Kcal: m.Kcal()}
}

// Sub returns t - o field by field. Negative values mean the target was exceeded.
func (t Totals) Sub(o Totals) Totals {
	return Totals{
		Protein: t.Protein - o.Protein,
		Fat:     t.Fat - o.Fat,
		Carbs:   t.Carbs - o.Carbs,
		Kcal:    t.Kcal - o.Kcal,
	}
}

// NewDaySummary builds the summary for date. goal may be nil.
func NewDaySummary(date Date, meals []Meal, goal *Goal) DaySummary {
	s := DaySummary{
		Date:      date,
		Totals:    SumMeals(meals),
		MealCount: len(meals),
	}
	if goal != nil {
		g := *goal
		target := TotalsOf(g.Targets())
		remaining := target.Sub(s.Totals)
		s.Goal = &g
		s.Target = &target
		s.Remaining = &remaining
	}
	return s
}
