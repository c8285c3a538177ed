package koji

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hubStub answers XML-RPC calls with canned methodResponse payloads,
// keyed by method name.
func hubStub(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed reading request: %v", err)
			return
		}

		for method, response := range responses {
			if strings.Contains(string(body), "<methodName>"+method+"</methodName>") {
				w.Header().Set("Content-Type", "text/xml")
				w.Write([]byte(response))
				return
			}
		}
		t.Errorf("unexpected hub call: %s", body)
	}))
}

func TestGetUser(t *testing.T) {
	server := hubStub(t, map[string]string{
		"getUser": `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>id</name><value><int>7</int></value></member>
<member><name>name</name><value><string>kdreyer</string></value></member>
</struct></value></param></params></methodResponse>`,
	})
	defer server.Close()

	client, err := NewClient(server.URL, "https://koji.example.com/koji")
	require.NoError(t, err)

	user, err := client.GetUser(context.Background(), "kdreyer")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "kdreyer", user.Name)
}

func TestGetUserNotFound(t *testing.T) {
	server := hubStub(t, map[string]string{
		"getUser": `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
</struct></value></param></params></methodResponse>`,
	})
	defer server.Close()

	client, err := NewClient(server.URL, "https://koji.example.com/koji")
	require.NoError(t, err)

	user, err := client.GetUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestTarget(t *testing.T) {
	server := hubStub(t, map[string]string{
		"getTaskRequest": `<?xml version="1.0"?>
<methodResponse><params><param><value><array><data>
<value><string>git://example.com/rpms/ceph#abc123</string></value>
<value><string>ceph-3.2-rhel-7-candidate</string></value>
</data></array></value></param></params></methodResponse>`,
	})
	defer server.Close()

	client, err := NewClient(server.URL, "https://koji.example.com/koji")
	require.NoError(t, err)

	target, err := client.Target(context.Background(), &Build{ID: 42, TaskID: 900})
	require.NoError(t, err)
	assert.Equal(t, "ceph-3.2-rhel-7-candidate", target)
}

func TestTargetWithoutTask(t *testing.T) {
	client, err := NewClient("http://localhost:1/hub", "https://koji.example.com/koji")
	require.NoError(t, err)

	// No task means no target, and no hub round trip either.
	target, err := client.Target(context.Background(), &Build{ID: 42})
	require.NoError(t, err)
	assert.Equal(t, "", target)
}

func TestCanceledContext(t *testing.T) {
	client, err := NewClient("http://localhost:1/hub", "https://koji.example.com/koji")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.GetUser(ctx, "kdreyer")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRequest(t *testing.T) {
	pkg, target, scratch := parseRequest([]any{
		"git://example.com/rpms/ceph.git#abc123",
		"ceph-3.2-rhel-7-candidate",
		map[string]any{"scratch": true},
	})
	assert.Equal(t, "ceph", pkg)
	assert.Equal(t, "ceph-3.2-rhel-7-candidate", target)
	assert.True(t, scratch)

	pkg, target, scratch = parseRequest(nil)
	assert.Equal(t, "", pkg)
	assert.Equal(t, "", target)
	assert.False(t, scratch)
}

func TestPackageFromSource(t *testing.T) {
	assert.Equal(t, "ceph", packageFromSource("git://example.com/rpms/ceph#abc"))
	assert.Equal(t, "ceph", packageFromSource("git://example.com/rpms/ceph.git#abc"))
	assert.Equal(t, "ceph-12.2.8-1.el7", packageFromSource("cli-build/123/ceph-12.2.8-1.el7.src.rpm"))
}

func TestParseHubTime(t *testing.T) {
	assert.True(t, parseHubTime("").IsZero())
	assert.True(t, parseHubTime("not a time").IsZero())

	ts := parseHubTime("2026-08-31 12:00:00")
	assert.Equal(t, 2026, ts.Year())

	ts = parseHubTime("2026-08-31 12:00:00.123456")
	assert.Equal(t, time.August, ts.Month())
}

func TestTaskURLAndDuration(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	task := &Task{
		ID:      12345,
		Started: now.Add(-30 * time.Minute),
		WebURL:  "https://koji.example.com/koji",
	}

	assert.Equal(t, "https://koji.example.com/koji/taskinfo?taskID=12345", task.URL())
	assert.Equal(t, 30*time.Minute, task.Duration(now))

	task.Completed = now.Add(-10 * time.Minute)
	assert.Equal(t, 20*time.Minute, task.Duration(now))

	unstarted := &Task{ID: 1}
	assert.Equal(t, time.Duration(0), unstarted.Duration(now))
}
