// Package domain defines the MCP tool surface over a combat session.
package domain

import (
	"context"

	"github.com/louvel/greatwheel/internal/combat/session"
	"github.com/louvel/greatwheel/internal/core/dice"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CombatantResult represents one combatant in MCP tool output.
type CombatantResult struct {
	ID   string `json:"id" jsonschema:"combatant identifier"`
	Name string `json:"name" jsonschema:"combatant display name"`
}

// OutcomeResult represents a dice outcome in MCP tool output.
type OutcomeResult struct {
	Result    string `json:"result" jsonschema:"outcome tag (success or botch)"`
	Successes int    `json:"successes" jsonschema:"number of successes, for success outcomes"`
	Ones      int    `json:"ones" jsonschema:"number of ones rolled, for botch outcomes"`
}

func outcomeResult(outcome *dice.Outcome) *OutcomeResult {
	if outcome == nil {
		return nil
	}
	if outcome.IsBotch() {
		return &OutcomeResult{Result: "botch", Ones: outcome.OnesRolled()}
	}
	return &OutcomeResult{Result: "success", Successes: outcome.Successes()}
}

// CombatJoinInput represents the MCP tool input for joining a battle.
type CombatJoinInput struct {
	Name string `json:"name" jsonschema:"combatant display name"`
	Tick int    `json:"tick" jsonschema:"tick the combatant enters on"`
}

// CombatJoinResult represents the MCP tool output for joining a battle.
type CombatJoinResult struct {
	CombatantID string `json:"combatant_id" jsonschema:"assigned combatant identifier"`
	Name        string `json:"name" jsonschema:"combatant display name"`
	Tick        int    `json:"tick" jsonschema:"tick the combatant entered on"`
	CurrentTick int    `json:"current_tick" jsonschema:"current tick after the join"`
}

// CombatJoinTool defines the MCP tool schema for joining a battle.
func CombatJoinTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_join",
		Description: "Adds a combatant to the battle at a tick",
	}
}

// CombatJoinHandler creates the MCP handler for joining a battle.
func CombatJoinHandler(sess *session.Session) mcp.ToolHandlerFor[CombatJoinInput, CombatJoinResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CombatJoinInput) (*mcp.CallToolResult, CombatJoinResult, error) {
		combatant, err := sess.JoinBattle(input.Name, input.Tick)
		if err != nil {
			return nil, CombatJoinResult{}, err
		}
		return nil, CombatJoinResult{
			CombatantID: combatant.ID,
			Name:        combatant.Name,
			Tick:        input.Tick,
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}

// CombatActInput represents the MCP tool input for a combatant action.
type CombatActInput struct {
	CombatantID string `json:"combatant_id" jsonschema:"acting combatant identifier"`
	Kind        string `json:"kind" jsonschema:"action label, e.g. attack or guard"`
	Speed       int    `json:"speed" jsonschema:"tick cost until the combatant's next turn"`
	Pool        int    `json:"pool,omitempty" jsonschema:"optional d10 success pool size"`
	Seed        int64  `json:"seed,omitempty" jsonschema:"optional seed for deterministic rolls"`
}

// CombatActResult represents the MCP tool output for a combatant action.
type CombatActResult struct {
	ActionID    string         `json:"action_id" jsonschema:"recorded action identifier"`
	Tick        int            `json:"tick" jsonschema:"tick the action was taken on"`
	NextTick    int            `json:"next_tick" jsonschema:"tick of the combatant's next turn"`
	Outcome     *OutcomeResult `json:"outcome,omitempty" jsonschema:"dice outcome, when a pool was rolled"`
	CurrentTick int            `json:"current_tick" jsonschema:"current tick after the action"`
}

// CombatActTool defines the MCP tool schema for a combatant action.
func CombatActTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_act",
		Description: "Records an action and advances the combatant by its speed",
	}
}

// CombatActHandler creates the MCP handler for a combatant action.
func CombatActHandler(sess *session.Session) mcp.ToolHandlerFor[CombatActInput, CombatActResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CombatActInput) (*mcp.CallToolResult, CombatActResult, error) {
		action, err := sess.Act(session.ActRequest{
			Combatant: input.CombatantID,
			Kind:      input.Kind,
			Speed:     input.Speed,
			Pool:      input.Pool,
			Seed:      input.Seed,
		})
		if err != nil {
			return nil, CombatActResult{}, err
		}
		return nil, CombatActResult{
			ActionID:    action.ID,
			Tick:        action.Tick,
			NextTick:    action.Tick + action.Speed,
			Outcome:     outcomeResult(action.Outcome),
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}

// CombatMoveInput represents the MCP tool input for repositioning.
type CombatMoveInput struct {
	CombatantID string `json:"combatant_id" jsonschema:"combatant identifier"`
	Tick        int    `json:"tick" jsonschema:"destination tick"`
}

// CombatMoveResult represents the MCP tool output for repositioning.
type CombatMoveResult struct {
	CombatantID string `json:"combatant_id" jsonschema:"combatant identifier"`
	Tick        int    `json:"tick" jsonschema:"tick the combatant now occupies"`
	CurrentTick int    `json:"current_tick" jsonschema:"current tick after the move"`
}

// CombatMoveTool defines the MCP tool schema for repositioning.
func CombatMoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_move",
		Description: "Moves a combatant to an arbitrary tick",
	}
}

// CombatMoveHandler creates the MCP handler for repositioning.
func CombatMoveHandler(sess *session.Session) mcp.ToolHandlerFor[CombatMoveInput, CombatMoveResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CombatMoveInput) (*mcp.CallToolResult, CombatMoveResult, error) {
		if err := sess.Reposition(input.CombatantID, input.Tick); err != nil {
			return nil, CombatMoveResult{}, err
		}
		return nil, CombatMoveResult{
			CombatantID: input.CombatantID,
			Tick:        input.Tick,
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}

// CombatLeaveInput represents the MCP tool input for leaving the battle.
type CombatLeaveInput struct {
	CombatantID string `json:"combatant_id" jsonschema:"combatant identifier"`
}

// CombatLeaveResult represents the MCP tool output for leaving the battle.
type CombatLeaveResult struct {
	Removed     bool `json:"removed" jsonschema:"whether the combatant was present and removed"`
	CurrentTick int  `json:"current_tick" jsonschema:"current tick after the removal"`
}

// CombatLeaveTool defines the MCP tool schema for leaving the battle.
func CombatLeaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_leave",
		Description: "Removes a combatant from the battle",
	}
}

// CombatLeaveHandler creates the MCP handler for leaving the battle.
func CombatLeaveHandler(sess *session.Session) mcp.ToolHandlerFor[CombatLeaveInput, CombatLeaveResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CombatLeaveInput) (*mcp.CallToolResult, CombatLeaveResult, error) {
		removed, err := sess.Leave(input.CombatantID)
		if err != nil {
			return nil, CombatLeaveResult{}, err
		}
		return nil, CombatLeaveResult{
			Removed:     removed,
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}

// CombatWipeInput represents the MCP tool input for ending the battle.
type CombatWipeInput struct{}

// CombatWipeResult represents the MCP tool output for ending the battle.
type CombatWipeResult struct {
	CurrentTick int `json:"current_tick" jsonschema:"current tick, kept from before the wipe"`
}

// CombatWipeTool defines the MCP tool schema for ending the battle.
func CombatWipeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_wipe",
		Description: "Removes every combatant and clears the undo history",
	}
}

// CombatWipeHandler creates the MCP handler for ending the battle.
func CombatWipeHandler(sess *session.Session) mcp.ToolHandlerFor[CombatWipeInput, CombatWipeResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CombatWipeInput) (*mcp.CallToolResult, CombatWipeResult, error) {
		if err := sess.Wipe(); err != nil {
			return nil, CombatWipeResult{}, err
		}
		return nil, CombatWipeResult{CurrentTick: sess.CurrentTick()}, nil
	}
}

// TurnResult represents one occupied tick in MCP tool output.
type TurnResult struct {
	Tick       int               `json:"tick" jsonschema:"occupied tick"`
	Combatants []CombatantResult `json:"combatants" jsonschema:"combatants on the tick in placement order"`
}

// CombatOrderInput represents the MCP tool input for the turn order.
type CombatOrderInput struct{}

// CombatOrderResult represents the MCP tool output for the turn order.
type CombatOrderResult struct {
	CurrentTick int          `json:"current_tick" jsonschema:"current tick"`
	Turns       []TurnResult `json:"turns" jsonschema:"occupied ticks ascending"`
}

// CombatOrderTool defines the MCP tool schema for the turn order.
func CombatOrderTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_order",
		Description: "Lists the turn order by tick",
	}
}

// CombatOrderHandler creates the MCP handler for the turn order.
func CombatOrderHandler(sess *session.Session) mcp.ToolHandlerFor[CombatOrderInput, CombatOrderResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CombatOrderInput) (*mcp.CallToolResult, CombatOrderResult, error) {
		turns := sess.Order()
		result := CombatOrderResult{
			CurrentTick: sess.CurrentTick(),
			Turns:       make([]TurnResult, 0, len(turns)),
		}
		for _, turn := range turns {
			turnResult := TurnResult{Tick: turn.Tick, Combatants: make([]CombatantResult, 0, len(turn.Combatants))}
			for _, combatant := range turn.Combatants {
				turnResult.Combatants = append(turnResult.Combatants, CombatantResult{
					ID:   combatant.ID,
					Name: combatant.Name,
				})
			}
			result.Turns = append(result.Turns, turnResult)
		}
		return nil, result, nil
	}
}

// CombatUndoInput represents the MCP tool input for undo.
type CombatUndoInput struct{}

// CombatUndoResult represents the MCP tool output for undo.
type CombatUndoResult struct {
	Undone      string `json:"undone" jsonschema:"description of the undone edit"`
	CurrentTick int    `json:"current_tick" jsonschema:"current tick after the undo"`
}

// CombatUndoTool defines the MCP tool schema for undo.
func CombatUndoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_undo",
		Description: "Reverses the most recent undoable edit",
	}
}

// CombatUndoHandler creates the MCP handler for undo.
func CombatUndoHandler(sess *session.Session) mcp.ToolHandlerFor[CombatUndoInput, CombatUndoResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CombatUndoInput) (*mcp.CallToolResult, CombatUndoResult, error) {
		description := sess.NextUndoDescription()
		if err := sess.Undo(); err != nil {
			return nil, CombatUndoResult{}, err
		}
		return nil, CombatUndoResult{
			Undone:      description,
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}

// CombatRedoInput represents the MCP tool input for redo.
type CombatRedoInput struct{}

// CombatRedoResult represents the MCP tool output for redo.
type CombatRedoResult struct {
	Redone      string `json:"redone" jsonschema:"description of the redone edit"`
	CurrentTick int    `json:"current_tick" jsonschema:"current tick after the redo"`
}

// CombatRedoTool defines the MCP tool schema for redo.
func CombatRedoTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_redo",
		Description: "Re-performs the most recently undone edit",
	}
}

// CombatRedoHandler creates the MCP handler for redo.
func CombatRedoHandler(sess *session.Session) mcp.ToolHandlerFor[CombatRedoInput, CombatRedoResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ CombatRedoInput) (*mcp.CallToolResult, CombatRedoResult, error) {
		description := sess.NextRedoDescription()
		if err := sess.Redo(); err != nil {
			return nil, CombatRedoResult{}, err
		}
		return nil, CombatRedoResult{
			Redone:      description,
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}
