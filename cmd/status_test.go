package cmd

import (
	"strings"
	"testing"

	"github.com/naricha/ctxwhisper/internal/llm"
)

func TestStatusFresh(t *testing.T) {
	setupEnv(t, &llm.Mock{})

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Context: 0 chars", "Summary: (none)", "Chat: locked, 0 messages", "History: 0 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatusAfterAnalyzeAndAsk(t *testing.T) {
	mock := &llm.Mock{SummaryText: "short summary", Replies: []string{"a reply"}}
	setupEnv(t, mock)

	if _, err := executeCommand(rootCmd, "context", "set", "0123456789"); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "analyze"); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "ask", "q"); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Context: 10 chars", "Summary: short summary", "Chat: idle, 2 messages", "History: 1 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCommand(t *testing.T) {
	mock := &llm.Mock{SummaryText: "exported body"}
	setupEnv(t, mock)

	if _, err := executeCommand(rootCmd, "export"); err == nil {
		t.Fatal("export with no summary should fail")
	}

	if _, err := executeCommand(rootCmd, "context", "set", "doc"); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "analyze"); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	out, err := executeCommand(rootCmd, "export", "--dir", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, dir) {
		t.Errorf("output missing path:\n%s", out)
	}
}
