package dice

import (
	"errors"
	"fmt"
)

// ErrInvalidPool indicates a success-pool request with no dice.
var ErrInvalidPool = errors.New("pool must contain at least one die")

// poolTarget is the face value a d10 must meet to count as a success.
const poolTarget = 7

// poolSides is the die used for success pools.
const poolSides = 10

// OutcomeKind discriminates success-pool outcomes.
type OutcomeKind int

const (
	// OutcomeUnspecified represents an invalid outcome value.
	OutcomeUnspecified OutcomeKind = iota
	// OutcomeSuccess indicates the pool produced at least zero successes
	// without botching.
	OutcomeSuccess
	// OutcomeBotch indicates the pool produced no successes and at least
	// one die showed a one.
	OutcomeBotch
)

// Outcome is the tagged result of a success-pool roll: either a success
// count or a botch carrying the number of ones rolled. The tag replaces the
// older convention of smuggling "botch" through the sign of the count.
type Outcome struct {
	kind      OutcomeKind
	successes int
	ones      int
}

// Success builds a success outcome with the given count.
func Success(successes int) Outcome {
	return Outcome{kind: OutcomeSuccess, successes: successes}
}

// Botch builds a botch outcome carrying the number of ones rolled.
func Botch(onesRolled int) Outcome {
	return Outcome{kind: OutcomeBotch, ones: onesRolled}
}

// Kind returns the outcome discriminator.
func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

// IsBotch reports whether the outcome is a botch.
func (o Outcome) IsBotch() bool {
	return o.kind == OutcomeBotch
}

// Successes returns the success count; zero for a botch.
func (o Outcome) Successes() int {
	if o.kind != OutcomeSuccess {
		return 0
	}
	return o.successes
}

// OnesRolled returns the number of ones behind a botch; zero otherwise.
func (o Outcome) OnesRolled() int {
	if o.kind != OutcomeBotch {
		return 0
	}
	return o.ones
}

func (o Outcome) String() string {
	switch o.kind {
	case OutcomeSuccess:
		return fmt.Sprintf("%d successes", o.successes)
	case OutcomeBotch:
		return fmt.Sprintf("botch (%d ones)", o.ones)
	default:
		return "unspecified"
	}
}

// PoolRequest describes a d10 success-pool roll.
type PoolRequest struct {
	Dice int
	Seed int64
}

// PoolResult captures a resolved success-pool roll.
type PoolResult struct {
	Results []int
	Outcome Outcome
}

// RollPool rolls a d10 success pool and resolves its tagged outcome.
//
// Faces meeting the target (7+) count one success each and tens count a
// second; a pool with no successes and at least one visible one is a botch.
// RollPool is deterministic with respect to Seed, like RollDice.
func RollPool(request PoolRequest) (PoolResult, error) {
	if request.Dice <= 0 {
		return PoolResult{}, ErrInvalidPool
	}

	result, err := RollDice(Request{
		Dice: []Spec{{Sides: poolSides, Count: request.Dice}},
		Seed: request.Seed,
	})
	if err != nil {
		// Unreachable: the pool request maps to a fixed valid die.
		panic(err)
	}

	return PoolResult{
		Results: result.Rolls[0].Results,
		Outcome: EvaluatePool(result.Rolls[0].Results),
	}, nil
}

// EvaluatePool deterministically resolves the outcome of rolled pool faces.
func EvaluatePool(results []int) Outcome {
	successes := 0
	ones := 0
	for _, value := range results {
		switch {
		case value == poolSides:
			successes += 2
		case value >= poolTarget:
			successes++
		case value == 1:
			ones++
		}
	}
	if successes == 0 && ones > 0 {
		return Botch(ones)
	}
	return Success(successes)
}
