package checker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pingcheck/internal/appwrite"
	"pingcheck/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type outcome struct {
	result any
	err    error
}

// fakePinger blocks each Ping until an outcome is sent on release.
type fakePinger struct {
	calls   chan struct{}
	release chan outcome
}

func newFakePinger() *fakePinger {
	return &fakePinger{
		calls:   make(chan struct{}, 16),
		release: make(chan outcome),
	}
}

func (f *fakePinger) Ping(_ context.Context) (any, error) {
	f.calls <- struct{}{}
	o := <-f.release
	return o.result, o.err
}

type staticPinger struct {
	result any
	err    error
}

func (s staticPinger) Ping(context.Context) (any, error) {
	return s.result, s.err
}

type panicPinger struct{}

func (panicPinger) Ping(context.Context) (any, error) {
	panic("sdk bug")
}

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestInitialState(t *testing.T) {
	c := New(staticPinger{})
	snap := c.Snapshot()

	assert.Equal(t, models.StatusIdle, snap.Status)
	assert.False(t, snap.PanelOpen)
	assert.Empty(t, snap.Logs)
	assert.Equal(t, ViewFor(models.StatusIdle), snap.View)
}

func TestWithPanelOpenOnStart(t *testing.T) {
	c := New(staticPinger{}, WithPanelOpen(true))
	assert.True(t, c.Snapshot().PanelOpen)
}

func TestSendPingSuccessEndToEnd(t *testing.T) {
	pinger := newFakePinger()
	c := New(pinger, WithClock(clock))

	done := make(chan models.LogEntry)
	go func() {
		entry, err := c.SendPing(context.Background())
		assert.NoError(t, err)
		done <- entry
	}()

	<-pinger.calls
	snap := c.Snapshot()
	assert.Equal(t, models.StatusLoading, snap.Status)
	assert.False(t, snap.View.ButtonVisible)
	assert.True(t, snap.View.Spinner)
	assert.Empty(t, snap.Logs)

	pinger.release <- outcome{result: map[string]any{}}
	entry := <-done

	snap = c.Snapshot()
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, entry, snap.Logs[0])
	assert.Equal(t, 200, entry.Status)
	assert.Equal(t, "GET", entry.Method)
	assert.Equal(t, "/v1/ping", entry.Path)
	assert.Equal(t, "{}", entry.Response)
	assert.Equal(t, fixedNow, entry.Date)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.StatusSuccess, snap.Status)
	assert.True(t, snap.PanelOpen)
	assert.Equal(t, "Congratulations!", snap.View.Headline)
}

func TestSendPingVendorError(t *testing.T) {
	c := New(staticPinger{err: &appwrite.VendorError{Code: 404, Message: "Not found"}})

	entry, err := c.SendPing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 404, entry.Status)
	assert.Equal(t, "Not found", entry.Response)
	assert.Equal(t, models.StatusError, c.Status())
	assert.True(t, c.Snapshot().PanelOpen)
}

func TestSendPingGenericError(t *testing.T) {
	c := New(staticPinger{err: errors.New("connection reset")})

	entry, err := c.SendPing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 500, entry.Status)
	assert.Equal(t, "Something went wrong", entry.Response)
	assert.Equal(t, models.StatusError, c.Status())
}

func TestSendPingRecoversFromPanickingClient(t *testing.T) {
	c := New(panicPinger{})

	entry, err := c.SendPing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 500, entry.Status)
	assert.Equal(t, models.StatusError, c.Status())
}

func TestSendPingSerializesWithoutHTMLEscaping(t *testing.T) {
	c := New(staticPinger{result: map[string]any{"msg": "a<b"}})

	entry, err := c.SendPing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"msg":"a<b"}`, entry.Response)

	c = New(staticPinger{result: map[string]string{"message": "Pong!"}})
	entry, err = c.SendPing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"message":"Pong!"}`, entry.Response)
}

func TestSendPingLogsRawJSONAsReceived(t *testing.T) {
	raw := json.RawMessage(`{"version":"1.6.0","status":"pass","ping":0,"note":"a<b"}`)
	c := New(staticPinger{result: raw})

	entry, err := c.SendPing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(raw), entry.Response)
}

func TestSendPingWhileLoadingIsRejected(t *testing.T) {
	pinger := newFakePinger()
	c := New(pinger)

	require.NoError(t, c.Start(context.Background()))
	<-pinger.calls

	_, err := c.SendPing(context.Background())
	assert.ErrorIs(t, err, ErrPingInFlight)
	assert.ErrorIs(t, c.Start(context.Background()), ErrPingInFlight)
	assert.Equal(t, models.StatusLoading, c.Status())
	assert.Zero(t, len(c.Snapshot().Logs))

	pinger.release <- outcome{result: "ok"}
	c.Wait()

	snap := c.Snapshot()
	assert.Len(t, snap.Logs, 1)
	assert.Equal(t, models.StatusSuccess, snap.Status)
	assert.Len(t, pinger.calls, 0)
}

func TestLogsGrowOnePerAttemptNewestFirst(t *testing.T) {
	outcomes := []staticPinger{
		{result: "first"},
		{err: &appwrite.VendorError{Code: 401, Message: "Unauthorized"}},
		{err: errors.New("boom")},
		{result: "last"},
	}
	c := New(nil)
	for i, o := range outcomes {
		c.client = o
		_, err := c.SendPing(context.Background())
		require.NoError(t, err)
		assert.Len(t, c.Snapshot().Logs, i+1)
	}

	logs := c.Snapshot().Logs
	assert.Equal(t, `"last"`, logs[0].Response)
	assert.Equal(t, 500, logs[1].Status)
	assert.Equal(t, 401, logs[2].Status)
	assert.Equal(t, `"first"`, logs[3].Response)

	summary := c.Snapshot().Summary
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Passing)
}

func TestPanelForcedOpenAfterSettle(t *testing.T) {
	c := New(staticPinger{result: "ok"})
	c.SetPanelOpen(false)

	_, err := c.SendPing(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Snapshot().PanelOpen)

	assert.False(t, c.TogglePanel())
	assert.False(t, c.Snapshot().PanelOpen)
	assert.True(t, c.TogglePanel())
}

func TestSnapshotIsSideEffectFree(t *testing.T) {
	c := New(staticPinger{result: "ok"})
	_, err := c.SendPing(context.Background())
	require.NoError(t, err)

	first := c.Snapshot()
	second := c.Snapshot()
	assert.Equal(t, first.Logs, second.Logs)
	assert.Equal(t, first.Status, second.Status)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	c := New(staticPinger{result: "ok"})
	updates, cancel := c.Subscribe()
	defer cancel()

	_, err := c.SendPing(context.Background())
	require.NoError(t, err)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}

	cancel()
	_, ok := <-updates
	assert.False(t, ok)
	cancel()
}

func TestStartDetachesFromRequestContext(t *testing.T) {
	pinger := newFakePinger()
	c := New(pinger)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx))
	cancel()

	<-pinger.calls
	pinger.release <- outcome{result: "ok"}
	c.Wait()

	assert.Equal(t, models.StatusSuccess, c.Status())
}
