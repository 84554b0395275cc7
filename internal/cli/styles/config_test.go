package styles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigRenderer(t *testing.T) {
	r := NewConfigRenderer(NewTheme())

	assert.Contains(t, r.RenderConfigInfo("/tmp/config.toml"), "/tmp/config.toml")
	assert.Contains(t, r.RenderWritten("schema", "/tmp/s.json"), "/tmp/s.json")
	assert.Contains(t, r.RenderExists("/tmp/config.toml"), "--force")
	assert.Contains(t, r.RenderError(errors.New("boom")), "boom")
}

func TestWorkspaceKeyMap_HelpCoversEveryBinding(t *testing.T) {
	km := DefaultWorkspaceKeyMap()

	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 15, total)
	assert.NotEmpty(t, km.ShortHelp())
}
