package monitoring

import (
	"context"
	"errors"
	"testing"
)

type stubCounter struct {
	n   int64
	err error
}

func (s *stubCounter) Count(ctx context.Context) (int64, error) {
	return s.n, s.err
}

func TestProbeRecordsStatus(t *testing.T) {
	counter := &stubCounter{n: 4}
	p, err := NewProber(counter, "@every 1h", nil)
	if err != nil {
		t.Fatalf("NewProber: %v", err)
	}

	if !p.Status().CheckedAt.IsZero() {
		t.Fatal("expected no probe before Probe is called")
	}

	p.Probe()
	st := p.Status()
	if !st.Up || st.Count != 4 || st.Err != "" {
		t.Fatalf("unexpected status after successful probe: %+v", st)
	}

	counter.err = errors.New("deadline exceeded")
	p.Probe()
	st = p.Status()
	if st.Up {
		t.Error("expected store to be reported down")
	}
	if st.Count != 4 {
		t.Errorf("expected last known count 4, got %d", st.Count)
	}
	if st.Err != "deadline exceeded" {
		t.Errorf("unexpected error text %q", st.Err)
	}
}

func TestNewProberRejectsBadSchedule(t *testing.T) {
	if _, err := NewProber(&stubCounter{}, "every now and then", nil); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestRunAndStop(t *testing.T) {
	p, err := NewProber(&stubCounter{n: 1}, "@every 1h", nil)
	if err != nil {
		t.Fatalf("NewProber: %v", err)
	}
	p.Run()
	p.Stop()

	if st := p.Status(); !st.Up || st.Count != 1 {
		t.Errorf("expected the initial probe to have run, got %+v", st)
	}
}
