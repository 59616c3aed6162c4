// internal/sensor/weather/source.go
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/tamzrod/modbus-tempbridge/internal/sensor"
)

// maxBody caps the j1 document; a normal response is a few tens of KiB.
const maxBody = 1 << 20

// Config is the minimal runtime config the weather source needs.
type Config struct {
	BaseURL  string // e.g. https://wttr.in
	Location string
	Timeout  time.Duration

	// Circuit breaker: open after MaxFailures consecutive transport
	// failures, stay open for Cooldown.
	MaxFailures uint32
	Cooldown    time.Duration
}

// RemoteWeatherSource fetches the current temperature of one location
// from a wttr.in compatible endpoint.
type RemoteWeatherSource struct {
	cfg     Config
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	log     logrus.FieldLogger
	now     func() time.Time
}

var (
	errStatus      = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// New creates a weather source. A nil client gets one bounded by cfg.Timeout.
func New(cfg Config, client *http.Client, log logrus.FieldLogger) (*RemoteWeatherSource, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("weather: base url required")
	}
	if cfg.Location == "" {
		return nil, errors.New("weather: location required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("weather: timeout must be > 0")
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{
		"source":   "weather",
		"location": cfg.Location,
	})

	maxFailures := cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather:" + cfg.Location,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"from": from.String(),
				"to":   to.String(),
			}).Warn("weather circuit breaker state changed")
		},
	})

	return &RemoteWeatherSource{
		cfg:     cfg,
		client:  client,
		circuit: cb,
		log:     log,
		now:     time.Now,
	}, nil
}

func (s *RemoteWeatherSource) Name() string { return "weather" }

// URL is the request target: <base>/<location>?format=j1.
func (s *RemoteWeatherSource) URL() string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/" + url.PathEscape(s.cfg.Location) + "?format=j1"
}

// Current performs one bounded request. Any failure yields an error
// (the reading is absent); nothing is retried inside a call.
func (s *RemoteWeatherSource) Current(parent context.Context) (sensor.Reading, error) {
	if err := parent.Err(); err != nil {
		return sensor.Reading{}, fmt.Errorf("%w: %v", sensor.ErrTransientIO, err)
	}

	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	// Only transport and status failures count against the breaker.
	// A caller cancelling mid-request is not a provider failure.
	result, err := s.circuit.Execute(func() (interface{}, error) {
		body, err := s.fetch(ctx)
		if err != nil && parent.Err() != nil {
			return nil, nil
		}
		return body, err
	})
	if perr := parent.Err(); perr != nil {
		return sensor.Reading{}, fmt.Errorf("%w: %v", sensor.ErrTransientIO, perr)
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return sensor.Reading{}, fmt.Errorf("%w: %v: %v", sensor.ErrTransientIO, errCircuitOpen, err)
		}
		return sensor.Reading{}, err
	}

	body, ok := result.([]byte)
	if !ok {
		return sensor.Reading{}, fmt.Errorf("%w: unexpected result type from circuit breaker", sensor.ErrTransientIO)
	}

	c, err := parseCurrentTemp(body)
	if err != nil {
		return sensor.Reading{}, err
	}

	return sensor.Reading{
		Key:     s.cfg.Location,
		Celsius: c,
		At:      s.now(),
	}, nil
}

// Sample wraps Current as a single slot (index 0). Implements sensor.Source.
func (s *RemoteWeatherSource) Sample(ctx context.Context) []sensor.Result {
	r, err := s.Current(ctx)
	if err != nil {
		s.log.WithError(err).Warn("sample absent")
	}
	return []sensor.Result{{
		Index:   0,
		Key:     s.cfg.Location,
		Reading: r,
		Err:     err,
	}}
}

func (s *RemoteWeatherSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", sensor.ErrTransientIO, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sensor.ErrTransientIO, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %v: %d", sensor.ErrTransientIO, errStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", sensor.ErrTransientIO, err)
	}
	return body, nil
}

// j1 is the subset of the wttr.in format=j1 document we use.
type j1 struct {
	CurrentCondition []struct {
		TempC json.RawMessage `json:"temp_C"`
	} `json:"current_condition"`
}

// parseCurrentTemp extracts current_condition[0].temp_C, given either as
// a JSON string ("13") or a number (13).
func parseCurrentTemp(body []byte) (float64, error) {
	var doc j1
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", sensor.ErrValidation, err)
	}
	if len(doc.CurrentCondition) == 0 {
		return 0, fmt.Errorf("%w: current_condition missing", sensor.ErrValidation)
	}

	raw := doc.CurrentCondition[0].TempC
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("%w: temp_C missing", sensor.ErrValidation)
	}

	var v float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: temp_C: %v", sensor.ErrValidation, err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: temp_C %q not numeric", sensor.ErrValidation, s)
		}
		v = f
	} else {
		if err := json.Unmarshal(raw, &v); err != nil {
			return 0, fmt.Errorf("%w: temp_C: %v", sensor.ErrValidation, err)
		}
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: temp_C not finite", sensor.ErrValidation)
	}
	return v, nil
}
