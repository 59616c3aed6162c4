// internal/sensor/onewire/source_test.go
package onewire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
)

// ---- fake bus ----

// fakeBus replays scripted frames per probe. Once a script is exhausted
// every further read fails, so no test can loop forever.
type fakeBus struct {
	ids     []string
	scripts map[string][]string
	reads   map[string]int
}

func newFakeBus(ids ...string) *fakeBus {
	return &fakeBus{
		ids:     ids,
		scripts: map[string][]string{},
		reads:   map[string]int{},
	}
}

func (f *fakeBus) Devices(prefix string) ([]string, error) {
	return f.ids, nil
}

func (f *fakeBus) ReadRaw(id string) ([]byte, error) {
	n := f.reads[id]
	f.reads[id]++
	script := f.scripts[id]
	if n >= len(script) {
		return nil, errors.New("no such device")
	}
	return []byte(script[n]), nil
}

func frame(crc string, milli int64) string {
	return fmt.Sprintf(
		"72 01 4b 46 7f ff 0e 10 57 : crc=57 %s\n72 01 4b 46 7f ff 0e 10 57 t=%d\n",
		crc, milli,
	)
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newSource(t *testing.T, bus Bus, maxAttempts int) (*MultiProbeSource, *int) {
	t.Helper()
	s, err := New(Config{
		FamilyPrefix: "28-",
		Backoff:      200 * time.Millisecond,
		MaxAttempts:  maxAttempts,
	}, bus, quietLog())
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	sleeps := 0
	s.sleep = func(ctx context.Context, d time.Duration) error {
		if d != 200*time.Millisecond {
			t.Fatalf("unexpected backoff %v", d)
		}
		sleeps++
		return ctx.Err()
	}
	return s, &sleeps
}

// ---- tests ----

func TestSampleOne_ExactConversion(t *testing.T) {
	cases := []int64{0, 1, -1, 21562, -5000, 85000, -55000, 23125, 999}

	for _, milli := range cases {
		bus := newFakeBus("28-a")
		bus.scripts["28-a"] = []string{frame("YES", milli)}
		s, _ := newSource(t, bus, 10)

		r, err := s.SampleOne(context.Background(), "28-a")
		if err != nil {
			t.Fatalf("milli=%d: err=%v", milli, err)
		}
		if want := float64(milli) / 1000.0; r.Celsius != want {
			t.Fatalf("milli=%d: got=%v want=%v", milli, r.Celsius, want)
		}
		if r.Key != "28-a" {
			t.Fatalf("key: got=%q", r.Key)
		}
	}
}

func TestSampleOne_RetryIsIdempotent(t *testing.T) {
	direct := newFakeBus("28-a")
	direct.scripts["28-a"] = []string{frame("YES", 21562)}
	s1, _ := newSource(t, direct, 10)
	want, err := s1.SampleOne(context.Background(), "28-a")
	if err != nil {
		t.Fatalf("direct err=%v", err)
	}

	for bad := 1; bad <= 5; bad++ {
		bus := newFakeBus("28-a")
		for i := 0; i < bad; i++ {
			bus.scripts["28-a"] = append(bus.scripts["28-a"], frame("NO", 99999))
		}
		bus.scripts["28-a"] = append(bus.scripts["28-a"], frame("YES", 21562))

		s, sleeps := newSource(t, bus, 10)
		got, err := s.SampleOne(context.Background(), "28-a")
		if err != nil {
			t.Fatalf("bad=%d: err=%v", bad, err)
		}
		if got.Celsius != want.Celsius || got.Key != want.Key {
			t.Fatalf("bad=%d: got=%+v want=%+v", bad, got, want)
		}
		if *sleeps != bad {
			t.Fatalf("bad=%d: expected %d backoffs, got %d", bad, bad, *sleeps)
		}
	}
}

func TestSampleOne_UnboundedRetryEndsOnProviderFailure(t *testing.T) {
	const k = 7
	bus := newFakeBus("28-a")
	for i := 0; i < k; i++ {
		bus.scripts["28-a"] = append(bus.scripts["28-a"], frame("NO", 1000))
	}

	s, _ := newSource(t, bus, 0) // unbounded: only the provider ends it

	_, err := s.SampleOne(context.Background(), "28-a")
	if !errors.Is(err, sensor.ErrTransientIO) {
		t.Fatalf("expected ErrTransientIO, got %v", err)
	}
	if bus.reads["28-a"] != k+1 {
		t.Fatalf("expected %d reads, got %d", k+1, bus.reads["28-a"])
	}
}

func TestSampleOne_AttemptCap(t *testing.T) {
	bus := newFakeBus("28-a")
	for i := 0; i < 20; i++ {
		bus.scripts["28-a"] = append(bus.scripts["28-a"], frame("NO", 1000))
	}

	s, _ := newSource(t, bus, 3)

	_, err := s.SampleOne(context.Background(), "28-a")
	if !errors.Is(err, sensor.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if bus.reads["28-a"] != 3 {
		t.Fatalf("expected 3 reads, got %d", bus.reads["28-a"])
	}
}

func TestSampleOne_Absent(t *testing.T) {
	cases := map[string]struct {
		script []string
		want   error
	}{
		"unreadable":   {nil, sensor.ErrTransientIO},
		"single line":  {[]string{"72 01 : crc=57 YES\n"}, sensor.ErrTransientIO},
		"no t= marker": {[]string{"aa : crc=57 YES\naa 01 02\n"}, sensor.ErrValidation},
		"bad integer":  {[]string{"aa : crc=57 YES\naa t=12x\n"}, sensor.ErrValidation},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bus := newFakeBus("28-a")
			bus.scripts["28-a"] = tc.script
			s, _ := newSource(t, bus, 10)

			_, err := s.SampleOne(context.Background(), "28-a")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSampleOne_CancelDuringBackoff(t *testing.T) {
	bus := newFakeBus("28-a")
	bus.scripts["28-a"] = []string{frame("NO", 1), frame("YES", 1)}
	s, _ := newSource(t, bus, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SampleOne(ctx, "28-a"); err == nil {
		t.Fatalf("expected cancellation error, got nil")
	}
}

func TestSampleAll_SkipsAbsentKeepsOrder(t *testing.T) {
	bus := newFakeBus("28-a", "28-b", "28-c")
	bus.scripts["28-a"] = []string{frame("YES", 21562)}
	// 28-b: raw read fails outright
	bus.scripts["28-c"] = []string{frame("YES", -5000)}

	s, _ := newSource(t, bus, 10)

	got := s.SampleAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
	if got[0].Key != "28-a" || got[1].Key != "28-c" {
		t.Fatalf("order: got=%q,%q", got[0].Key, got[1].Key)
	}

	res := s.Sample(context.Background())
	if len(res) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(res))
	}
	for i, r := range res {
		if r.Index != i {
			t.Fatalf("slot %d has index %d", i, r.Index)
		}
	}
	if res[1].Present() {
		t.Fatalf("slot 1 should be absent")
	}
}

func TestSample_NoProbes(t *testing.T) {
	s, _ := newSource(t, newFakeBus(), 10)

	if got := s.SampleAll(context.Background()); len(got) != 0 {
		t.Fatalf("expected no readings, got %d", len(got))
	}
}
