package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	member   = 42
	operator = 99
	apiToken = "e2e-api-token"
)

type eventReply struct {
	Chat     int64  `json:"chat"`
	Text     string `json:"text"`
	Keyboard string `json:"keyboard"`
}

type eventResponse struct {
	RequestID string       `json:"request_id"`
	Replies   []eventReply `json:"replies"`
}

type account struct {
	PublicCode       string `json:"public_code"`
	CreditBalance    int64  `json:"credit_balance"`
	City             string `json:"city"`
	FreeUsesConsumed int64  `json:"free_uses_consumed"`
}

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeConfigFixture(home))

	addr := freeAddr(t)
	server := startServer(t, binaryPath, home, addr)
	baseURL := "http://" + addr

	anonymous, err := http.Post(baseURL+"/v1/events", "application/json", strings.NewReader(`{"sender":99,"text":"/recharge 500 ABCDE"}`))
	require.NoError(t, err)
	_ = anonymous.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	replies := postEvent(t, baseURL, `{"sender":42,"text":"/start"}`)
	require.NotEmpty(t, replies)
	assert.Equal(t, "main", replies[0].Keyboard)

	outsider := postEvent(t, baseURL, `{"sender":7,"text":"/start"}`)
	require.Len(t, outsider, 1)
	assert.Equal(t, "subscribe", outsider[0].Keyboard)

	postEvent(t, baseURL, `{"sender":42,"callback":"select_city"}`)
	saved := postEvent(t, baseURL, `{"sender":42,"text":"milano"}`)
	require.Len(t, saved, 1)
	assert.Contains(t, saved[0].Text, "Milano")

	started := postEvent(t, baseURL, `{"sender":42,"text":"✅ New chat"}`)
	require.Len(t, started, 2)
	assert.Equal(t, "chat", started[0].Keyboard)

	for i := 0; i < 2; i++ {
		turn := postEvent(t, baseURL, `{"sender":42,"text":"ciao, come stai?"}`)
		require.Len(t, turn, 1)
		assert.NotContains(t, turn[0].Text, "enough credits")
	}

	denied := postEvent(t, baseURL, `{"sender":42,"text":"ancora?"}`)
	require.Len(t, denied, 2)
	assert.Contains(t, denied[0].Text, "enough credits")

	stopServer(t, server)

	stdout, stderr, err := runBot(t, binaryPath, home, "account", "list", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	var accounts []account
	require.NoError(t, json.Unmarshal([]byte(stdout), &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, "Milano", accounts[0].City)
	assert.Equal(t, int64(2), accounts[0].FreeUsesConsumed)

	stdout, stderr, err = runBot(t, binaryPath, home, "account", "recharge", "20", accounts[0].PublicCode, "--operator", fmt.Sprint(operator))
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "set to 20 (previous 0")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "incognitobot-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/incognitobot")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build incognitobot binary: %s", string(output))
	return binaryPath
}

func startServer(t *testing.T, binaryPath, home, addr string) *exec.Cmd {
	t.Helper()

	cmd := exec.Command(binaryPath, "serve", "--listen", addr)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Dir = home
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return cmd
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy: %s", stderr.String())
	return nil
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	require.NoError(t, cmd.Process.Signal(syscall.SIGTERM))
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func postEvent(t *testing.T, baseURL, body string) []eventReply {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/v1/events", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded eventResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.NotEmpty(t, decoded.RequestID)
	return decoded.Replies
}

func runBot(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Dir = home

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func freeAddr(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeConfigFixture(home string) error {
	configDir := filepath.Join(home, ".incognitobot")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	config := fmt.Sprintf(`[ledger]
driver = "file"
path = %q

[admin]
ids = [%d]

[membership]
static_members = [%d]

[server]
api_token = %q

[secrets]
use_pass = false

[log]
level = "warn"
`, filepath.Join(home, "users_database.txt"), operator, member, apiToken)

	return os.WriteFile(filepath.Join(configDir, "incognitobot.toml"), []byte(config), 0o644)
}
