package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	appwebsocket "maintenance-system/pkg/websocket"
)

type staticResolver struct {
	session *authz.Session
}

func (r staticResolver) Resolve(context.Context, uint64) (*authz.Session, error) {
	return r.session, nil
}

func newWSFixture(t *testing.T) (*WebSocketController, *appwebsocket.Client, *stubSearchService) {
	t.Helper()
	hub := appwebsocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	search := &stubSearchService{}
	ctrl := NewWebSocketController(hub, staticResolver{session: testSession()}, search, nil, time.Second, zap.NewNop())
	ctrl.dispatch = func(fn func()) { fn() }

	client := appwebsocket.NewClient(hub, nil, 5, ctrl.handleMessage, zap.NewNop())
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.Connected(5) }, time.Second, 10*time.Millisecond)
	return ctrl, client, search
}

func nextEnvelope(t *testing.T, c *appwebsocket.Client) (appwebsocket.Envelope, bool) {
	t.Helper()
	select {
	case raw := <-c.Send:
		var env appwebsocket.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env, true
	case <-time.After(200 * time.Millisecond):
		return appwebsocket.Envelope{}, false
	}
}

func TestWebSocketController_StaleResponsesAreDropped(t *testing.T) {
	ctrl, client, search := newWSFixture(t)

	ctrl.handleMessage(client, []byte(`{"type":"search","seq":2,"entity":"work-orders","criteria":{"pageSize":5}}`))
	env, ok := nextEnvelope(t, client)
	require.True(t, ok)
	assert.Equal(t, appwebsocket.TypeSearchResult, env.Type)
	assert.Equal(t, uint64(2), env.Seq)
	assert.Equal(t, entities.WorkOrders, search.lastTag)
	assert.Equal(t, 5, search.lastCriteria.PageSize)

	ctrl.handleMessage(client, []byte(`{"type":"search","seq":1,"entity":"WORK_ORDERS"}`))
	_, ok = nextEnvelope(t, client)
	assert.False(t, ok, "response to an older request must not be delivered")
}

func TestWebSocketController_QuickSearch(t *testing.T) {
	ctrl, client, search := newWSFixture(t)

	ctrl.handleMessage(client, []byte(`{"type":"search","seq":1,"entity":"assets","query":"valve"}`))
	env, ok := nextEnvelope(t, client)
	require.True(t, ok)
	assert.Equal(t, appwebsocket.TypeSearchResult, env.Type)
	assert.Equal(t, "valve", search.lastQuery)
}

func TestWebSocketController_BadMessages(t *testing.T) {
	ctrl, client, _ := newWSFixture(t)

	for _, raw := range []string{
		`not json`,
		`{"type":"subscribe","seq":1}`,
		`{"type":"search","seq":0,"entity":"assets"}`,
		`{"type":"search","seq":3,"entity":"meters"}`,
	} {
		ctrl.handleMessage(client, []byte(raw))
		env, ok := nextEnvelope(t, client)
		require.True(t, ok, raw)
		assert.Equal(t, appwebsocket.TypeError, env.Type, raw)
		assert.NotEmpty(t, env.Error, raw)
	}
}

func TestWebSocketController_ConcurrentSearchesArriveInOrder(t *testing.T) {
	ctrl, client, _ := newWSFixture(t)

	var wg sync.WaitGroup
	ctrl.dispatch = func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	for _, n := range rand.Perm(50) {
		msg := fmt.Sprintf(`{"type":"search","seq":%d,"entity":"work-orders"}`, n+1)
		ctrl.handleMessage(client, []byte(msg))
	}
	wg.Wait()

	var last uint64
	for len(client.Send) > 0 {
		env, ok := nextEnvelope(t, client)
		require.True(t, ok)
		assert.Equal(t, appwebsocket.TypeSearchResult, env.Type)
		assert.Greater(t, env.Seq, last, "an older result was delivered after a newer one")
		last = env.Seq
	}
	assert.Equal(t, uint64(50), client.Seq.Latest())
}
