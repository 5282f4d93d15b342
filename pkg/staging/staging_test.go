package staging_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cardscan-dev/cardboard/pkg/staging"
)

func writeImage(assert *assert.Assertions, dir, name string, size int) string {
	path := filepath.Join(dir, name)

	err := os.WriteFile(path, make([]byte, size), 0o644)
	assert.Nil(err)

	return path
}

func TestAddValidFile(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	path := writeImage(assert, dir, "card.png", 100)

	file, err := intake.Add(path)
	assert.Nil(err)
	assert.Equal("card.png", file.Name)
	assert.Equal(int64(100), file.Size)
	assert.Equal("image/png", file.ContentType)
	assert.NotEmpty(file.ID)

	// preview resource exists for the staged entry
	_, err = os.Stat(file.PreviewPath())
	assert.Nil(err)

	assert.Equal(1, intake.Count())
	assert.Equal("1 file", intake.CountLabel())
}

func TestAddRejectsUnsupportedFormat(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	path := writeImage(assert, dir, "animation.gif", 50)

	file, err := intake.Add(path)
	assert.Nil(file)

	var verr *staging.ValidationError
	assert.ErrorAs(err, &verr)
	assert.Equal("animation.gif", verr.Filename)
	assert.Equal("Unsupported file format. Please upload PNG, JPG, JPEG, or WEBP only.", verr.Reason)

	assert.Equal(0, intake.Count())
}

func TestAddRejectsDuplicate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	path := writeImage(assert, dir, "card.jpg", 100)

	_, err := intake.Add(path)
	assert.Nil(err)

	_, err = intake.Add(path)

	var verr *staging.ValidationError
	assert.ErrorAs(err, &verr)
	assert.Equal("File already selected", verr.Reason)

	assert.Equal(1, intake.Count())
}

func TestMixedBatchScenario(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	first := writeImage(assert, dir, "front.png", 100)
	second := writeImage(assert, dir, "back.png", 120)
	gif := writeImage(assert, dir, "animated.gif", 80)

	_, err := intake.Add(first)
	assert.Nil(err)
	_, err = intake.Add(second)
	assert.Nil(err)

	_, err = intake.Add(gif)
	var formatErr *staging.ValidationError
	assert.ErrorAs(err, &formatErr)
	assert.Equal("Unsupported file format. Please upload PNG, JPG, JPEG, or WEBP only.", formatErr.Reason)

	_, err = intake.Add(first)
	var dupErr *staging.ValidationError
	assert.ErrorAs(err, &dupErr)
	assert.Equal("File already selected", dupErr.Reason)

	assert.Equal("2 files", intake.CountLabel())
}

func TestRemoveDeletesPreviewOnce(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	path := writeImage(assert, dir, "card.webp", 60)

	file, err := intake.Add(path)
	assert.Nil(err)

	previewPath := file.PreviewPath()

	assert.True(intake.Remove(file.ID))
	assert.Equal(0, intake.Count())
	assert.Equal("", file.PreviewPath())

	_, err = os.Stat(previewPath)
	assert.True(os.IsNotExist(err))

	// a second remove of the same id is a no-op
	assert.False(intake.Remove(file.ID))
}

func TestClear(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	first, err := intake.Add(writeImage(assert, dir, "a.png", 10))
	assert.Nil(err)
	second, err := intake.Add(writeImage(assert, dir, "b.png", 20))
	assert.Nil(err)

	intake.Clear()
	assert.Equal(0, intake.Count())
	assert.Equal("", first.PreviewPath())
	assert.Equal("", second.PreviewPath())
}

func TestBeginGuards(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	// empty staging refuses to submit
	err := intake.Begin()
	assert.NotNil(err)

	_, err = intake.Add(writeImage(assert, dir, "card.png", 10))
	assert.Nil(err)

	assert.Nil(intake.Begin())
	assert.True(intake.InProgress())

	// a second submission before Finish is refused
	err = intake.Begin()
	assert.NotNil(err)

	intake.Finish()
	assert.False(intake.InProgress())
	assert.Nil(intake.Begin())
}

func TestBatch(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	dir := t.TempDir()
	intake := staging.NewIntake(filepath.Join(dir, "previews"))

	_, err := intake.Add(writeImage(assert, dir, "a.png", 10))
	assert.Nil(err)
	_, err = intake.Add(writeImage(assert, dir, "b.jpeg", 20))
	assert.Nil(err)

	batch, closeAll, err := intake.Batch()
	assert.Nil(err)
	assert.Equal(2, len(batch))
	assert.Equal("a.png", batch[0].Name)
	assert.Equal("image/png", batch[0].ContentType)
	assert.Equal("b.jpeg", batch[1].Name)

	closeAll()
}

func TestSyntheticProgress(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	var mu sync.Mutex

	var values []int

	stop := staging.SyntheticProgress(time.Millisecond, func(pct int) {
		mu.Lock()
		values = append(values, pct)
		mu.Unlock()
	})

	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()

	assert.NotEmpty(values)

	last := 0
	for _, v := range values {
		assert.GreaterOrEqual(v, last)
		assert.LessOrEqual(v, 90)
		last = v
	}
}
