package memory

import (
	"context"
	"errors"
	"testing"
)

func TestSlot(t *testing.T) {
	ctx := context.Background()
	s := New()

	data, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for empty slot, got %q", data)
	}

	in := []byte(`{"default_user":{}}`)
	if err := s.Write(ctx, in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	in[0] = 'x'

	data, _ = s.Read(ctx)
	if string(data) != `{"default_user":{}}` {
		t.Errorf("slot kept a reference to the caller's buffer: %q", data)
	}
	data[1] = 'y'
	again, _ := s.Read(ctx)
	if string(again) != `{"default_user":{}}` {
		t.Errorf("Read returned shared buffer: %q", again)
	}
	if s.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", s.Writes())
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	data, _ = s.Read(ctx)
	if data != nil {
		t.Errorf("expected nil after Clear, got %q", data)
	}
}

func TestSlot_InitialContents(t *testing.T) {
	s := New([]byte("{}")...)
	data, _ := s.Read(context.Background())
	if string(data) != "{}" {
		t.Errorf("expected {}, got %q", data)
	}
}

func TestSlot_FailWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("quota exceeded")
	s.FailWrites(boom)

	if err := s.Write(ctx, []byte("{}")); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if err := s.Clear(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected injected error on Clear, got %v", err)
	}
	if s.Writes() != 0 {
		t.Errorf("failed write was counted")
	}

	s.FailWrites(nil)
	if err := s.Write(ctx, []byte("{}")); err != nil {
		t.Fatalf("Write after reset: %v", err)
	}
}
