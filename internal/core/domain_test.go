package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{" 2025-12-31 ", true},
		{"2023-02-29", false}, // not a leap year
		{"2024-13-01", false},
		{"2024-1-1", false},
		{"01/02/2024", false},
		{"", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%q expected validation error, got %v", tc.in, err)
			}
			continue
		}
		if d.String() == "" {
			t.Fatalf("%q parsed to empty date", tc.in)
		}
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 3, 7)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-07"` {
		t.Fatalf("unexpected json %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("expected %v, got %v", d, back)
	}

	if err := json.Unmarshal([]byte(`"2024-02-30"`), &back); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMacrosKcal(t *testing.T) {
	m := Macros{Protein: 3, Fat: 0.1, Carbs: 27}
	want := 3*4 + 0.1*9 + 27*4.0
	if got := m.Kcal(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("kcal = %v, want %v", got, want)
	}
	if got := m.Scale(2).Kcal(); math.Abs(got-2*want) > 1e-9 {
		t.Fatalf("scaled kcal = %v, want %v", got, 2*want)
	}
}

func TestValidateMultiplier(t *testing.T) {
	for _, m := range []float64{0, 0.5, 1, 10} {
		if err := ValidateMultiplier(m); err != nil {
			t.Fatalf("%v expected ok, got %v", m, err)
		}
	}
	for _, m := range []float64{-0.01, 10.01, 100, math.NaN(), math.Inf(1)} {
		if err := ValidateMultiplier(m); !errors.Is(err, ErrValidation) {
			t.Fatalf("%v expected validation error, got %v", m, err)
		}
	}
}

func TestMealValidate(t *testing.T) {
	good := NewMeal("Rice", Macros{Protein: 3, Fat: 0.1, Carbs: 27}, NewDate(2024, 1, 1))
	if good.Multiplier != DefaultMultiplier {
		t.Fatalf("expected default multiplier, got %v", good.Multiplier)
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		name string
		meal Meal
		want error
	}{
		{"empty name", Meal{Name: " ", Multiplier: 1, Date: NewDate(2024, 1, 1)}, ErrEmptyName},
		{"negative protein", Meal{Name: "x", Macros: Macros{Protein: -1}, Multiplier: 1, Date: NewDate(2024, 1, 1)}, ErrNegativeMacro},
		{"nan carbs", Meal{Name: "x", Macros: Macros{Carbs: math.NaN()}, Multiplier: 1, Date: NewDate(2024, 1, 1)}, ErrNonFiniteValue},
		{"multiplier high", Meal{Name: "x", Multiplier: 11, Date: NewDate(2024, 1, 1)}, ErrInvalidMultiplier},
		{"zero date", Meal{Name: "x", Multiplier: 1}, ErrInvalidDate},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.meal.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestProductValidate(t *testing.T) {
	if err := (Product{Name: "Eggs", Macros: Macros{Protein: 13, Fat: 11, Carbs: 1}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Product{Name: "", Macros: Macros{Protein: 1}}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Product{Name: "x", Macros: Macros{Fat: -2}}).Validate(); !errors.Is(err, ErrNegativeMacro) {
		t.Fatalf("expected ErrNegativeMacro, got %v", err)
	}
}

func TestGoalValidateAndTargets(t *testing.T) {
	g := Goal{WeightKg: 80, ProteinPerKg: 2, FatPerKg: 1, CarbsPerKg: 3}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	tg := g.Targets()
	if tg.Protein != 160 || tg.Fat != 80 || tg.Carbs != 240 {
		t.Fatalf("unexpected targets %+v", tg)
	}

	if err := (Goal{WeightKg: 0}).Validate(); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if err := (Goal{WeightKg: 70, FatPerKg: -1}).Validate(); !errors.Is(err, ErrNegativeTarget) {
		t.Fatalf("expected ErrNegativeTarget, got %v", err)
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStorageError("insert meal", cause)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage category")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "insert meal" {
		t.Fatalf("expected *StorageError with op, got %v", err)
	}
	if NewStorageError("noop", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}
