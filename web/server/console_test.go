package server

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

// recordingLogger captures server-side log lines
type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Printf(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	serverLog := &recordingLogger{}
	logger := NewWebLogger("test-render-123", messageChan, serverLog)

	testMessage := "Test log message"
	logger.Printf("%s\n", testMessage)

	select {
	case msg := <-messageChan:
		expectedMessage := testMessage + "\n"
		if msg.Message != expectedMessage {
			t.Errorf("Expected message '%s', got '%s'", expectedMessage, msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if msg.RenderID != "test-render-123" {
			t.Errorf("Expected render ID 'test-render-123', got '%s'", msg.RenderID)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}

	if len(serverLog.lines) != 1 || serverLog.lines[0] != "[test-render-123] Test log message\n" {
		t.Errorf("Expected message mirrored to the server log, got %q", serverLog.lines)
	}
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-456", messageChan, nil)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	for i, expected := range messages {
		select {
		case msg := <-messageChan:
			if msg.Message != expected+"\n" {
				t.Errorf("Message %d: expected '%s', got '%s'", i, expected+"\n", msg.Message)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("Timeout waiting for message %d", i+1)
		}
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", messageChan, nil)

	logger.Printf("Message 1\n")
	// These must not block even though the channel is full
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	msg := <-messageChan
	if msg.Message != "Message 1\n" {
		t.Errorf("Expected the first message to be kept, got '%s'", msg.Message)
	}
	select {
	case extra := <-messageChan:
		t.Errorf("Expected overflow messages to be dropped, got '%s'", extra.Message)
	default:
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", nil, nil)
	// Must not panic
	logger.Printf("Test message with nil channel\n")
}

func TestWebLogger_Levels(t *testing.T) {
	tests := []struct {
		message string
		level   string
	}{
		{"Render completed in 12ms\n", "info"},
		{"Rendering cancelled after 3 of 12 tiles\n", "warning"},
		{"tile 4 failed\n", "error"},
	}

	for _, tt := range tests {
		messageChan := make(chan ConsoleMessage, 1)
		NewWebLogger("levels", messageChan, nil).Printf("%s", tt.message)
		if msg := <-messageChan; msg.Level != tt.level {
			t.Errorf("%q: expected level %s, got %s", tt.message, tt.level, msg.Level)
		}
	}
}

func TestStreamConsoleMessages(t *testing.T) {
	consoleChan := make(chan ConsoleMessage, 2)
	sseEventChan := make(chan SSEEvent, 2)

	consoleChan <- ConsoleMessage{Message: "hello", Level: "info", Timestamp: time.Now()}
	close(consoleChan)

	streamConsoleMessages(context.Background(), consoleChan, sseEventChan)

	select {
	case event := <-sseEventChan:
		if event.Type != "console" {
			t.Errorf("Expected console event, got %s", event.Type)
		}
		var msg ConsoleMessage
		if err := json.Unmarshal([]byte(event.Data), &msg); err != nil {
			t.Fatalf("Console event is not valid JSON: %v", err)
		}
		if msg.Message != "hello" {
			t.Errorf("Expected message 'hello', got '%s'", msg.Message)
		}
	default:
		t.Error("Expected a console event to be forwarded")
	}
}
