package domain

import (
	"context"

	"github.com/louvel/greatwheel/internal/combat/session"
	"github.com/louvel/greatwheel/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CombatSaveInput represents the MCP tool input for saving a battle.
type CombatSaveInput struct {
	Name string `json:"name" jsonschema:"snapshot name, saving again overwrites"`
}

// CombatSaveResult represents the MCP tool output for saving a battle.
type CombatSaveResult struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"stored snapshot identifier"`
	Name       string `json:"name" jsonschema:"snapshot name"`
	Combatants int    `json:"combatants" jsonschema:"number of combatants saved"`
}

// CombatSaveTool defines the MCP tool schema for saving a battle.
func CombatSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_save",
		Description: "Saves the battle as a named snapshot",
	}
}

// CombatSaveHandler creates the MCP handler for saving a battle.
func CombatSaveHandler(sess *session.Session, store storage.SnapshotStore) mcp.ToolHandlerFor[CombatSaveInput, CombatSaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatSaveInput) (*mcp.CallToolResult, CombatSaveResult, error) {
		snapshot, err := sess.Snapshot(input.Name)
		if err != nil {
			return nil, CombatSaveResult{}, err
		}
		saved, err := store.Save(ctx, snapshot)
		if err != nil {
			return nil, CombatSaveResult{}, err
		}
		return nil, CombatSaveResult{
			SnapshotID: saved.ID,
			Name:       saved.Name,
			Combatants: len(saved.Entries),
		}, nil
	}
}

// CombatLoadInput represents the MCP tool input for loading a battle.
type CombatLoadInput struct {
	Name string `json:"name" jsonschema:"snapshot name to load"`
}

// CombatLoadResult represents the MCP tool output for loading a battle.
type CombatLoadResult struct {
	Name        string `json:"name" jsonschema:"snapshot name"`
	Combatants  int    `json:"combatants" jsonschema:"number of combatants restored"`
	CurrentTick int    `json:"current_tick" jsonschema:"current tick after the load"`
}

// CombatLoadTool defines the MCP tool schema for loading a battle.
func CombatLoadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "combat_load",
		Description: "Replaces the battle with a named snapshot",
	}
}

// CombatLoadHandler creates the MCP handler for loading a battle.
func CombatLoadHandler(sess *session.Session, store storage.SnapshotStore) mcp.ToolHandlerFor[CombatLoadInput, CombatLoadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CombatLoadInput) (*mcp.CallToolResult, CombatLoadResult, error) {
		snapshot, err := store.Load(ctx, input.Name)
		if err != nil {
			return nil, CombatLoadResult{}, err
		}
		if err := sess.Restore(snapshot); err != nil {
			return nil, CombatLoadResult{}, err
		}
		return nil, CombatLoadResult{
			Name:        snapshot.Name,
			Combatants:  len(snapshot.Entries),
			CurrentTick: sess.CurrentTick(),
		}, nil
	}
}
