package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/application/port/mocks"
	"github.com/bnema/tilegrid/internal/domain/entity"
)

type fakeMeasurer struct {
	mu    sync.Mutex
	rects map[entity.NodeID]entity.Rect
}

func newFakeMeasurer(rects map[entity.NodeID]entity.Rect) *fakeMeasurer {
	return &fakeMeasurer{rects: rects}
}

func (f *fakeMeasurer) Measure(id entity.NodeID) (entity.Rect, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rects[id]
	return r, ok
}

func testOptions() Options {
	return Options{Interval: time.Millisecond, MaxTicks: 5}
}

func snapshotOf(id entity.NodeID, rect entity.Rect) entity.SurfaceSnapshot {
	return entity.SurfaceSnapshot{id: {Locator: "a", Rect: rect}}
}

func TestPoller_CorrectsDriftThenStops(t *testing.T) {
	committed := entity.Rect{X: 0, Y: 0, W: 100, H: 100}
	measured := entity.Rect{X: 0, Y: 0, W: 100, H: 101}

	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", committed), nil).Once()
	host.EXPECT().SetSurfaceRect(mock.Anything, entity.NodeID("T1"), measured).Return(nil).Once()
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", measured), nil).Once()

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": measured}), testOptions())
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
}

func TestPoller_StopsImmediatelyWhenAligned(t *testing.T) {
	rect := entity.Rect{W: 50, H: 50}
	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", rect), nil).Once()

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": rect}), testOptions())
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
	host.AssertNotCalled(t, "SetSurfaceRect", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	host := mocks.NewMockSurfaceHost(t)
	p := NewPoller(host, newFakeMeasurer(nil), Options{Interval: time.Hour})

	p.Start(context.Background(), "T1")
	first := p.sessions["T1"]
	p.Start(context.Background(), "T1")

	assert.Same(t, first, p.sessions["T1"])
	assert.Len(t, p.sessions, 1)
	p.StopAll()
	assert.False(t, p.Active("T1"))
}

func TestPoller_PlaceholderCapturedOnceAndCleared(t *testing.T) {
	committed := entity.Rect{W: 100, H: 100}
	measured := entity.Rect{W: 120, H: 100}
	frame := []byte{0x89, 'P', 'N', 'G'}

	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", committed), nil).Twice()
	host.EXPECT().SetSurfaceRect(mock.Anything, entity.NodeID("T1"), measured).Return(nil).Twice()
	host.EXPECT().CaptureSurfaceFrame(mock.Anything, entity.NodeID("T1"), measured).Return(frame, nil).Once()
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", measured), nil).Once()

	var mu sync.Mutex
	var placeholders [][]byte
	opts := testOptions()
	opts.CapturePlaceholder = true
	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": measured}), opts)
	p.OnPlaceholder(func(id entity.NodeID, f []byte) {
		mu.Lock()
		placeholders = append(placeholders, f)
		mu.Unlock()
	})
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, placeholders, 2)
	assert.Equal(t, frame, placeholders[0])
	assert.Nil(t, placeholders[1])
}

func TestPoller_GivesUpAfterMaxTicks(t *testing.T) {
	measured := entity.Rect{W: 10, H: 10}
	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(entity.SurfaceSnapshot{}, nil).Times(3)
	host.EXPECT().SetSurfaceRect(mock.Anything, entity.NodeID("T1"), measured).Return(nil).Times(3)

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": measured}),
		Options{Interval: time.Millisecond, MaxTicks: 3})
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
}

func TestPoller_SnapshotErrorsCountAsTicks(t *testing.T) {
	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(nil, errors.New("host busy")).Times(2)

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": {W: 1, H: 1}}),
		Options{Interval: time.Millisecond, MaxTicks: 2})
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
}

func TestPoller_UnmeasuredTileStopsSilently(t *testing.T) {
	host := mocks.NewMockSurfaceHost(t)
	p := NewPoller(host, newFakeMeasurer(nil), testOptions())

	p.Start(context.Background(), "gone")

	require.Eventually(t, func() bool { return !p.Active("gone") }, time.Second, time.Millisecond)
}

func TestPoller_CanceledContextStops(t *testing.T) {
	host := mocks.NewMockSurfaceHost(t)
	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": {W: 1, H: 1}}), testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Start(ctx, "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
}

func TestPoller_RecreatesMissingSurface(t *testing.T) {
	measured := entity.Rect{X: 50, W: 50, H: 50}
	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(entity.SurfaceSnapshot{}, nil).Once()
	host.EXPECT().CreateSurface(mock.Anything, entity.NodeID("T2"), entity.SurfaceOptions{Locator: "logs", Rect: measured}).Return(nil).Once()
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T2", measured), nil).Once()

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T2": measured}), testOptions())
	p.OnMissing(func(id entity.NodeID) (entity.SurfaceOptions, bool) {
		return entity.SurfaceOptions{Locator: "logs"}, true
	})
	p.Start(context.Background(), "T2")

	require.Eventually(t, func() bool { return !p.Active("T2") }, time.Second, time.Millisecond)
	host.AssertNotCalled(t, "SetSurfaceRect", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoller_MissingSurfaceOfRemovedTileGetsRectOnly(t *testing.T) {
	measured := entity.Rect{W: 10, H: 10}
	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(entity.SurfaceSnapshot{}, nil).Times(2)
	host.EXPECT().SetSurfaceRect(mock.Anything, entity.NodeID("T1"), measured).Return(nil).Times(2)

	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": measured}),
		Options{Interval: time.Millisecond, MaxTicks: 2})
	p.OnMissing(func(entity.NodeID) (entity.SurfaceOptions, bool) { return entity.SurfaceOptions{}, false })
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool { return !p.Active("T1") }, time.Second, time.Millisecond)
	host.AssertNotCalled(t, "CreateSurface", mock.Anything, mock.Anything, mock.Anything)
}

func TestPoller_TimeoutClearsPlaceholder(t *testing.T) {
	committed := entity.Rect{W: 100, H: 100}
	measured := entity.Rect{W: 120, H: 100}
	frame := []byte{0x89, 'P', 'N', 'G'}

	host := mocks.NewMockSurfaceHost(t)
	host.EXPECT().GetSurfaceSnapshot(mock.Anything).Return(snapshotOf("T1", committed), nil).Times(2)
	host.EXPECT().SetSurfaceRect(mock.Anything, entity.NodeID("T1"), measured).Return(nil).Times(2)
	host.EXPECT().CaptureSurfaceFrame(mock.Anything, entity.NodeID("T1"), measured).Return(frame, nil).Once()

	var mu sync.Mutex
	var placeholders [][]byte
	p := NewPoller(host, newFakeMeasurer(map[entity.NodeID]entity.Rect{"T1": measured}),
		Options{Interval: time.Millisecond, MaxTicks: 2, CapturePlaceholder: true})
	p.OnPlaceholder(func(id entity.NodeID, f []byte) {
		mu.Lock()
		placeholders = append(placeholders, f)
		mu.Unlock()
	})
	p.Start(context.Background(), "T1")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(placeholders) == 2
	}, time.Second, time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, frame, placeholders[0])
	assert.Nil(t, placeholders[1])
}
