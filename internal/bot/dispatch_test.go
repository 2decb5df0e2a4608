package bot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
)

func TestDispatcher_OrderPerChat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen = make(map[int64][]string)
		done sync.WaitGroup
	)
	const chats, perChat = 5, 50
	done.Add(chats * perChat)

	d := NewDispatcher(3, 8, func(_ context.Context, in Incoming) {
		mu.Lock()
		seen[in.ChatID] = append(seen[in.ChatID], in.Text)
		mu.Unlock()
		done.Done()
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.Start(ctx)

	for i := 0; i < perChat; i++ {
		for chat := int64(1); chat <= chats; chat++ {
			if !d.Submit(ctx, Incoming{ChatID: chat, Text: string(rune('A' + i%26)) + string(rune('0'+i/26))}) {
				t.Fatal("Submit() = false")
			}
		}
	}
	done.Wait()
	cancel()
	d.Wait()

	for chat := int64(1); chat <= chats; chat++ {
		got := seen[chat]
		if len(got) != perChat {
			t.Fatalf("chat %d got %d events, want %d", chat, len(got), perChat)
		}
		for i, text := range got {
			want := string(rune('A'+i%26)) + string(rune('0'+i/26))
			if text != want {
				t.Fatalf("chat %d event %d = %q, want %q", chat, i, text, want)
			}
		}
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var done sync.WaitGroup
	done.Add(2)
	handled := 0
	d := NewDispatcher(1, 1, func(_ context.Context, in Incoming) {
		defer done.Done()
		if in.Text == "boom" {
			panic("boom")
		}
		handled++
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.Start(ctx)

	d.Submit(ctx, Incoming{ChatID: 1, Text: "boom"})
	d.Submit(ctx, Incoming{ChatID: 1, Text: "ok"})
	done.Wait()
	cancel()
	d.Wait()

	if handled != 1 {
		t.Errorf("handled = %d, want 1", handled)
	}
}

func TestDispatcher_SubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, 0, func(context.Context, Incoming) {}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	cancel()
	if d.Submit(ctx, Incoming{ChatID: 1}) {
		t.Error("Submit() after cancel with no workers should return false")
	}
}
