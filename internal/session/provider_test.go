package session

import (
	"strings"
	"testing"
)

func TestGenerateKeyFormat(t *testing.T) {
	key := GenerateKey()
	if !strings.HasPrefix(key, "session-") {
		t.Fatalf("key should carry session- prefix, got %s", key)
	}
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		t.Fatalf("key should be session-<ts>-<suffix>, got %s", key)
	}
	if len(parts[2]) != 9 {
		t.Fatalf("suffix length want 9 got %d", len(parts[2]))
	}

	other := GenerateKey()
	if key == other {
		t.Fatalf("consecutive keys should differ")
	}
}

func TestGetSessionKeyReusesCurrent(t *testing.T) {
	p := NewProvider(nil)

	got := p.GetSessionKey("session-123-abcdefghi")
	if got != "session-123-abcdefghi" {
		t.Fatalf("non-empty key should be reused, got %s", got)
	}

	minted := p.GetSessionKey("")
	if !strings.HasPrefix(minted, "session-") {
		t.Fatalf("empty key should mint a new one, got %s", minted)
	}

	// 空白视同为空
	blank := p.GetSessionKey("   ")
	if !strings.HasPrefix(blank, "session-") || blank == "   " {
		t.Fatalf("blank key should mint a new one, got %q", blank)
	}
}

func TestClearSessionKeyWithoutStore(t *testing.T) {
	p := NewProvider(nil)
	// 无持久化存储时清除不应崩溃
	p.ClearSessionKey("session-123-abcdefghi")
	p.ClearSessionKey("")
}
