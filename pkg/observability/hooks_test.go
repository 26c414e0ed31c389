package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	layoutStarts int
	renderDone   []string
}

func (h *recordingPipelineHooks) OnLayoutStart(ctx context.Context, persons int) {
	h.layoutStarts++
}

func (h *recordingPipelineHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	h.renderDone = formats
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string) { h.misses++ }

func TestHookRegistration(t *testing.T) {
	t.Cleanup(Reset)

	ph := &recordingPipelineHooks{}
	ch := &recordingCacheHooks{}
	SetPipelineHooks(ph)
	SetCacheHooks(ch)

	ctx := context.Background()
	Pipeline().OnLayoutStart(ctx, 12)
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")

	assert.Equal(t, 1, ph.layoutStarts)
	assert.Equal(t, []string{"svg"}, ph.renderDone)
	assert.Equal(t, 1, ch.hits)
	assert.Equal(t, 1, ch.misses)
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)

	ph := &recordingPipelineHooks{}
	SetPipelineHooks(ph)
	SetPipelineHooks(nil)

	Pipeline().OnLayoutStart(context.Background(), 1)
	assert.Equal(t, 1, ph.layoutStarts)
}

func TestReset(t *testing.T) {
	SetPipelineHooks(&recordingPipelineHooks{})
	SetCacheHooks(&recordingCacheHooks{})
	Reset()

	_, isNoop := Pipeline().(NoopPipelineHooks)
	assert.True(t, isNoop)
	_, isNoopCache := Cache().(NoopCacheHooks)
	assert.True(t, isNoopCache)
}
