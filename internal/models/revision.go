package models

import "time"

type ScriptSource string

const (
	ScriptSourceTemplate ScriptSource = "template"
	ScriptSourceAI       ScriptSource = "ai"
	ScriptSourceManual   ScriptSource = "manual"
)

// ScriptRevision is a snapshot of an episode script taken every time the script changes.
type ScriptRevision struct {
	EpisodeID string       `db:"episode_id" json:"episodeId"`
	Revision  int64        `db:"revision"   json:"revision"`
	Script    string       `db:"script"     json:"script"`
	Source    ScriptSource `db:"source"     json:"source"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
