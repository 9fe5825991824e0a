package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements ClientInterface for testing
type mockClient struct {
	id       string
	ownerID  string
	mu       sync.Mutex
	messages [][]byte
	sendErr  error
	closed   bool
}

func newMockClient(id, ownerID string) *mockClient {
	return &mockClient{id: id, ownerID: ownerID}
}

func (m *mockClient) ID() string      { return m.id }
func (m *mockClient) OwnerID() string { return m.ownerID }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.messages))
	copy(out, m.messages)
	return out
}

func TestHub_RegisterAndCount(t *testing.T) {
	hub := NewHub()

	client1 := newMockClient("c1", "auth0|u1")
	client2 := newMockClient("c2", "auth0|u1")
	client3 := newMockClient("c3", LocalOwnerKey)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount("auth0|u1"))
	assert.Equal(t, 1, hub.ClientCount(LocalOwnerKey))
	assert.Equal(t, 0, hub.ClientCount("auth0|u2"))
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	client := newMockClient("c1", "auth0|u1")

	hub.Register(client)
	require.Equal(t, 1, hub.ClientCount("auth0|u1"))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount("auth0|u1"))

	// Unregistering twice is harmless
	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount("auth0|u1"))
}

func TestHub_BroadcastReachesOnlyOwner(t *testing.T) {
	hub := NewHub()

	mine := newMockClient("c1", "auth0|u1")
	theirs := newMockClient("c2", "auth0|u2")
	local := newMockClient("c3", LocalOwnerKey)

	hub.Register(mine)
	hub.Register(theirs)
	hub.Register(local)

	hub.Broadcast("auth0|u1", TransactionCreated(map[string]string{"id": "t1"}))

	require.Len(t, mine.GetMessages(), 1)
	assert.Empty(t, theirs.GetMessages())
	assert.Empty(t, local.GetMessages())

	var event Event
	require.NoError(t, json.Unmarshal(mine.GetMessages()[0], &event))
	assert.Equal(t, "transaction.created", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
}

func TestHub_BroadcastDropsFailingClients(t *testing.T) {
	hub := NewHub()

	healthy := newMockClient("c1", "auth0|u1")
	broken := newMockClient("c2", "auth0|u1")
	broken.sendErr = ErrClientClosed

	hub.Register(healthy)
	hub.Register(broken)

	hub.Broadcast("auth0|u1", AccountDeleted(map[string]string{"id": "acc-1"}))

	assert.Equal(t, 1, hub.ClientCount("auth0|u1"))
	assert.True(t, broken.closed)
	assert.Len(t, healthy.GetMessages(), 1)
}

func TestHub_ConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			hub.Register(newMockClient(string(rune('a'+n)), LocalOwnerKey))
		}(i)
		go func() {
			defer wg.Done()
			hub.Broadcast(LocalOwnerKey, AccountUpserted(true, nil))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, hub.ClientCount(LocalOwnerKey))
}
