package sessions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seamosgenios/panel/schema"
)

// LoadSeed reads a JSON array of sessions. Stored IDs are ignored and reassigned on append.
func LoadSeed(path string) ([]schema.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed []schema.Session
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return seed, nil
}
