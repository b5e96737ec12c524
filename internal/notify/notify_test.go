package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

type fakeBotAPI struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *fakeBotAPI) handler(t *testing.T, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/bot" + token + "/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Tarefas","username":"tarefas_bot"}}`)
		case "/bot" + token + "/sendMessage":
			f.mu.Lock()
			f.sent = append(f.sent, map[string]string{
				"chat_id":    r.PostForm.Get("chat_id"),
				"text":       r.PostForm.Get("text"),
				"parse_mode": r.PostForm.Get("parse_mode"),
			})
			f.mu.Unlock()
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"ok":false,"error_code":404,"description":"Not Found"}`)
		}
	}
}

func TestTelegramSenderSend(t *testing.T) {
	fake := &fakeBotAPI{}
	server := httptest.NewServer(fake.handler(t, "secret"))
	defer server.Close()

	sender, err := NewTelegramSender("secret", server.URL+"/bot%s/%s", 42)
	if err != nil {
		t.Fatalf("NewTelegramSender: %v", err)
	}
	if sender.BotName() != "tarefas_bot" {
		t.Fatalf("unexpected bot name %q", sender.BotName())
	}

	if err := sender.Send(context.Background(), "<b>Tarefas vencidas</b>"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(fake.sent))
	}
	got := fake.sent[0]
	if got["chat_id"] != "42" || got["text"] != "<b>Tarefas vencidas</b>" || got["parse_mode"] != "HTML" {
		t.Fatalf("unexpected request: %v", got)
	}
}

func TestTelegramSenderBadToken(t *testing.T) {
	fake := &fakeBotAPI{}
	server := httptest.NewServer(fake.handler(t, "secret"))
	defer server.Close()

	if _, err := NewTelegramSender("wrong", server.URL+"/bot%s/%s", 42); err == nil {
		t.Fatal("expected auth error for unknown token")
	}
	if _, err := NewTelegramSender("", server.URL+"/bot%s/%s", 42); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewTelegramSender("secret", server.URL+"/bot%s/%s", 0); err == nil {
		t.Fatal("expected error for empty chat id")
	}
}

func TestTelegramSenderCanceledContext(t *testing.T) {
	fake := &fakeBotAPI{}
	server := httptest.NewServer(fake.handler(t, "secret"))
	defer server.Close()

	sender, err := NewTelegramSender("secret", server.URL+"/bot%s/%s", 42)
	if err != nil {
		t.Fatalf("NewTelegramSender: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sender.Send(ctx, "x"); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if len(fake.sent) != 0 {
		t.Fatal("nothing should be sent after cancellation")
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := LogSender{Log: zerolog.New(&buf)}

	if err := sender.Send(context.Background(), "digest body"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"digest body"`) || !strings.Contains(buf.String(), `"component":"digest"`) {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("curto", 10); got != "curto" {
		t.Fatalf("short text changed: %q", got)
	}

	long := strings.Repeat("é", 20)
	got := truncate(long, 10)
	if utf8.RuneCountInString(got) != 10 || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
