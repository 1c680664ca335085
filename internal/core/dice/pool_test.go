package dice

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
)

// TestEvaluatePoolOutcomes covers the tagged success/botch resolution.
func TestEvaluatePoolOutcomes(t *testing.T) {
	tcs := []struct {
		name    string
		results []int
		want    Outcome
	}{
		{"plain successes", []int{7, 8, 3}, Success(2)},
		{"tens count double", []int{10, 2, 4}, Success(2)},
		{"no successes no ones", []int{2, 3, 4}, Success(0)},
		{"botch on lone one", []int{1, 2, 3}, Botch(1)},
		{"botch counts every one", []int{1, 1, 5}, Botch(2)},
		{"success cancels botch", []int{1, 9}, Success(1)},
		{"ten cancels botch", []int{1, 10}, Success(2)},
	}
	for _, tc := range tcs {
		if got := EvaluatePool(tc.results); got != tc.want {
			t.Fatalf("%s: EvaluatePool(%v) = %v, want %v", tc.name, tc.results, got, tc.want)
		}
	}
}

// TestOutcomeAccessors ensures each tag only exposes its own payload.
func TestOutcomeAccessors(t *testing.T) {
	success := Success(3)
	if success.IsBotch() || success.Successes() != 3 || success.OnesRolled() != 0 {
		t.Fatalf("unexpected success accessors: %v", success)
	}
	if success.Kind() != OutcomeSuccess {
		t.Fatalf("success kind = %v", success.Kind())
	}

	botch := Botch(2)
	if !botch.IsBotch() || botch.Successes() != 0 || botch.OnesRolled() != 2 {
		t.Fatalf("unexpected botch accessors: %v", botch)
	}
	if botch.Kind() != OutcomeBotch {
		t.Fatalf("botch kind = %v", botch.Kind())
	}

	var zero Outcome
	if zero.Kind() != OutcomeUnspecified {
		t.Fatalf("zero value kind = %v", zero.Kind())
	}
}

// TestRollPoolIsDeterministic ensures RollPool matches a manual roll with the same seed.
func TestRollPoolIsDeterministic(t *testing.T) {
	seed := int64(42)
	rng := rand.New(rand.NewSource(seed))
	want := make([]int, 5)
	for i := range want {
		want[i] = rng.Intn(10) + 1
	}

	result, err := RollPool(PoolRequest{Dice: 5, Seed: seed})
	if err != nil {
		t.Fatalf("RollPool returned error: %v", err)
	}
	if !slices.Equal(result.Results, want) {
		t.Fatalf("RollPool results = %v, want %v", result.Results, want)
	}
	if result.Outcome != EvaluatePool(want) {
		t.Fatalf("RollPool outcome = %v, want %v", result.Outcome, EvaluatePool(want))
	}
}

// TestRollPoolRejectsEmptyPool ensures pools need at least one die.
func TestRollPoolRejectsEmptyPool(t *testing.T) {
	for _, size := range []int{0, -2} {
		_, err := RollPool(PoolRequest{Dice: size, Seed: 1})
		if !errors.Is(err, ErrInvalidPool) {
			t.Fatalf("RollPool(%d) error = %v, want %v", size, err, ErrInvalidPool)
		}
	}
}
