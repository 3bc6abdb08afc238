package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, recorder *Recorder) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := recorder.Registry().Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, family := range families {
		byName[family.GetName()] = family
	}
	return byName
}

func counterValue(family *dto.MetricFamily, labels map[string]string) float64 {
	for _, metric := range family.GetMetric() {
		matched := true
		for _, pair := range metric.GetLabel() {
			if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
				matched = false
			}
		}
		if matched {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecorderCounts(t *testing.T) {
	recorder := New()
	recorder.CommandExecuted("pause", nil)
	recorder.CommandExecuted("pause", nil)
	recorder.CommandExecuted("pause", errors.New("boom"))
	recorder.BreakStarted("long_break")
	recorder.NaturalBreakEvent("natural_break_started", 21*time.Second)

	families := gather(t, recorder)
	assert.Equal(t, 2.0, counterValue(families["breaktime_commands_total"], map[string]string{"command": "pause", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(families["breaktime_commands_total"], map[string]string{"command": "pause", "outcome": "error"}))
	assert.Equal(t, 1.0, counterValue(families["breaktime_breaks_started_total"], map[string]string{"kind": "long_break"}))
	assert.Equal(t, 1.0, counterValue(families["breaktime_natural_break_events_total"], map[string]string{"event": "natural_break_started"}))
	assert.Equal(t, 21.0, families["breaktime_natural_break_idle_seconds"].GetMetric()[0].GetGauge().GetValue())
}

func TestNilRecorderIsInert(t *testing.T) {
	var recorder *Recorder
	recorder.CommandExecuted("reset", nil)
	recorder.BreakStarted("mini_break")
	recorder.NaturalBreakEvent("clear_break_scheduler", time.Minute)
	assert.Nil(t, recorder.Registry())

	response := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestHandlerServesMetricsAndHealth(t *testing.T) {
	recorder := New()
	recorder.BreakStarted("mini_break")
	server := httptest.NewServer(recorder.Handler())
	defer server.Close()

	response, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.True(t, strings.Contains(string(body), `breaktime_breaks_started_total{kind="mini_break"} 1`))

	response, err = http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}
