package collection

import (
	"time"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"
)

const (
	CommandOptions   = "options"
	CommandInsert    = "insert"
	CommandPatch     = "patch"
	CommandIndex     = "index"
	CommandDropIndex = "dropIndex"
	CommandDrain     = "drain"
)

type Command struct {
	Name      string         `json:"name"`
	Uuid      string         `json:"uuid"`
	Timestamp int64          `json:"timestamp"`
	Payload   jsontext.Value `json:"payload"`
}

func newCommand(name string, payload []byte) *Command {
	return &Command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   payload,
	}
}

type patchCommand struct {
	Key  string         `json:"key"`
	Diff jsontext.Value `json:"diff"`
}

type dropIndexCommand struct {
	Name string `json:"name"`
}

type indexCommand struct {
	Name    string             `json:"name"`
	Options *IndexBtreeOptions `json:"options"`
}
