// Package clienttest provides a websocket node that streams program logs to
// a Client.
package clienttest

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"test-token/internal/faucet"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// LogsSubscription is the id the node hands out for logsSubscribe.
const LogsSubscription = 7

// Notification is one logsNotification pushed after the subscription is
// confirmed.
type Notification struct {
	Signature solana.Signature
	Err       interface{}
	Logs      []string
}

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// NewLogsNode starts a websocket endpoint and returns its ws:// url. Every
// logsSubscribe is answered and then followed by notifications in order.
func NewLogsNode(t testing.TB, notifications ...Notification) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req request
			if err := json.Unmarshal(message, &req); err != nil {
				return
			}
			switch req.Method {
			case "logsSubscribe":
				if err := conn.WriteJSON(map[string]interface{}{
					"jsonrpc": "2.0",
					"id":      req.ID,
					"result":  LogsSubscription,
				}); err != nil {
					return
				}
				for _, n := range notifications {
					if err := conn.WriteJSON(notification(n)); err != nil {
						return
					}
				}
			default:
				_ = conn.WriteJSON(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": true})
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func notification(n Notification) map[string]interface{} {
	logs := n.Logs
	if logs == nil {
		logs = []string{}
	}
	return map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "logsNotification",
		"params": map[string]interface{}{
			"subscription": LogsSubscription,
			"result": map[string]interface{}{
				"context": map[string]interface{}{"slot": 1},
				"value": map[string]interface{}{
					"signature": n.Signature.String(),
					"err":       n.Err,
					"logs":      logs,
				},
			},
		},
	}
}

// EventLogs renders the log lines of a successful faucet instruction that
// emitted events.
func EventLogs(t testing.TB, programID solana.PublicKey, events ...faucet.Event) []string {
	t.Helper()
	program := programID.String()
	logs := []string{
		"Program " + program + " invoke [1]",
		"Program log: Instruction: MintTokens",
	}
	for _, e := range events {
		data, err := faucet.EncodeEvent(e)
		require.NoError(t, err)
		logs = append(logs, "Program data: "+base64.StdEncoding.EncodeToString(data))
	}
	return append(logs, "Program "+program+" success")
}
