package core

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

const (
	MinMultiplier = 0.0
	MaxMultiplier = 10.0

	DefaultMultiplier = 1.0

	MaxNameLength = 200

	// DateLayout is the wire and storage form of a ledger day.
	DateLayout = "2006-01-02"
)

// Energy per gram of macro nutrient.
const (
	KcalPerGramProtein = 4.0
	KcalPerGramFat     = 9.0
	KcalPerGramCarbs   = 4.0
)

type (
	// Date is a calendar day in the producer's local convention. Only the
	// year, month and day are meaningful.
	Date struct {
		time.Time
	}

	// Macros holds grams of protein, fat and carbohydrate per reference unit.
	Macros struct {
		Protein float64 `json:"protein"`
		Fat     float64 `json:"fat"`
		Carbs   float64 `json:"carbs"`
	}

	Product struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Macros
	}

	// Meal is a dated value copy of a macro profile scaled by Multiplier.
	Meal struct {
		ID         int64   `json:"id"`
		Name       string  `json:"name"`
		Multiplier float64 `json:"multiplier"`
		Date       Date    `json:"date"`
		Macros
	}

	// Goal is the single daily target, expressed per kilogram of WeightKg.
	Goal struct {
		WeightKg     float64 `json:"weight"`
		ProteinPerKg float64 `json:"protein_per_kg"`
		FatPerKg     float64 `json:"fat_per_kg"`
		CarbsPerKg   float64 `json:"carbs_per_kg"`
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts only well-formed calendar days ("2024-02-30" fails).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MarshalJSON overrides the embedded time.Time encoding with the day form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Kcal is the only place energy is derived from macros.
func (m Macros) Kcal() float64 {
	return m.Protein*KcalPerGramProtein + m.Fat*KcalPerGramFat + m.Carbs*KcalPerGramCarbs
}

// Scale returns the macros multiplied by factor.
func (m Macros) Scale(factor float64) Macros {
	return Macros{
		Protein: m.Protein * factor,
		Fat:     m.Fat * factor,
		Carbs:   m.Carbs * factor,
	}
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein: m.Protein + o.Protein,
		Fat:     m.Fat + o.Fat,
		Carbs:   m.Carbs + o.Carbs,
	}
}

func (m Macros) Validate() error {
	for _, v := range []float64{m.Protein, m.Fat, m.Carbs} {
		if err := validateFinite(v); err != nil {
			return err
		}
		if v < 0 {
			return ErrNegativeMacro
		}
	}
	return nil
}

// NewMeal builds a meal with the default multiplier.
func NewMeal(name string, macros Macros, date Date) Meal {
	return Meal{
		Name:       name,
		Macros:     macros,
		Multiplier: DefaultMultiplier,
		Date:       date,
	}
}

// MealFromProduct copies the product's macro snapshot into a new meal.
func MealFromProduct(p Product, date Date, multiplier float64) Meal {
	return Meal{
		Name:       p.Name,
		Macros:     p.Macros,
		Multiplier: multiplier,
		Date:       date,
	}
}

// Scaled returns the macros the meal contributes to its day.
func (m Meal) Scaled() Macros {
	return m.Macros.Scale(m.Multiplier)
}

// Kcal returns the energy of the meal at its multiplier.
func (m Meal) Kcal() float64 {
	return m.Scaled().Kcal()
}

func (m Meal) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}
	if err := m.Macros.Validate(); err != nil {
		return err
	}
	if err := ValidateMultiplier(m.Multiplier); err != nil {
		return err
	}
	return m.Date.Validate()
}

func (p Product) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	return p.Macros.Validate()
}

// Kcal returns the energy of one reference unit of the product.
func (p Product) Kcal() float64 {
	return p.Macros.Kcal()
}

func (g Goal) Validate() error {
	if err := validateFinite(g.WeightKg); err != nil {
		return err
	}
	if g.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	for _, v := range []float64{g.ProteinPerKg, g.FatPerKg, g.CarbsPerKg} {
		if err := validateFinite(v); err != nil {
			return err
		}
		if v < 0 {
			return ErrNegativeTarget
		}
	}
	return nil
}

// Targets returns the absolute daily grams implied by the goal.
func (g Goal) Targets() Macros {
	return Macros{
		Protein: g.ProteinPerKg,
		Fat:     g.FatPerKg,
		Carbs:   g.CarbsPerKg,
	}.Scale(g.WeightKg)
}

// ValidateMultiplier rejects values outside [MinMultiplier, MaxMultiplier].
func ValidateMultiplier(m float64) error {
	if err := validateFinite(m); err != nil {
		return err
	}
	if m < MinMultiplier || m > MaxMultiplier {
		return ErrInvalidMultiplier
	}
	return nil
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFiniteValue
	}
	return nil
}
