package staging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardscan-dev/cardboard/pkg/staging"
)

func TestExtractFlashes(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	fragment := `<div class="messages-container">
		<div class="alert alert-success">Processed 2 file(s) successfully</div>
		<div class="alert alert-error">scan.gif: unsupported format</div>
	</div>`

	flashes := staging.ExtractFlashes(fragment)
	assert.Equal(2, len(flashes))
	assert.Equal("success", flashes[0].Level)
	assert.Equal("Processed 2 file(s) successfully", flashes[0].Message)
	assert.Equal("error", flashes[1].Level)
	assert.Equal("scan.gif: unsupported format", flashes[1].Message)
}

func TestExtractFlashesIgnoresOtherElements(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	fragment := `<div><p>nothing to see</p><div class="card">not an alert</div></div>`

	assert.Empty(staging.ExtractFlashes(fragment))
}

func TestExtractFlashesUnparseableFragment(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	// html.Parse is lenient; even junk yields no flashes rather than a panic
	assert.Empty(staging.ExtractFlashes("<<<<not html"))
}
