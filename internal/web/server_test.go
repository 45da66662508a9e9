package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/standup-mate/internal/logic"
	"github.com/sweeney/standup-mate/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		TickMs:      100,
		DebounceMs:  50,
		LongPressMs: 1000,
		TimerMin:    45,
		TelemetryMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func sittingFrame() logic.Frame {
	return logic.Frame{
		Page:             logic.PageRemainingTime,
		Posture:          logic.PostureSitting,
		SittingTime:      90,
		Remaining:        43*time.Minute + 30*time.Second,
		RemainingPercent: 0.97,
		Distance:         61,
		SittingDistance:  60,
		LEDs:             [logic.LEDCount]bool{true, false, false},
	}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func getHTML(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(sittingFrame(), logic.EventCounts{SitDowns: 5, StandUps: 2})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Posture != "SITTING" {
		t.Errorf("Posture: got %q, want SITTING", sj.Status.Posture)
	}
	if sj.Status.Page != "REMAINING_TIME" {
		t.Errorf("Page: got %q, want REMAINING_TIME", sj.Status.Page)
	}
	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q, want tcp://192.168.1.200:1883", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.SitDowns != 5 {
		t.Errorf("Counts.SitDowns: got %d, want 5", sj.Status.Counts.SitDowns)
	}
	if sj.Status.Counts.StandUps != 2 {
		t.Errorf("Counts.StandUps: got %d, want 2", sj.Status.Counts.StandUps)
	}
	if sj.Status.Config.TickMs != 100 {
		t.Errorf("Config.TickMs: got %d, want 100", sj.Status.Config.TickMs)
	}
}

func TestJSONBeforeCalibration(t *testing.T) {
	ts, _ := newTestServer(t)
	sj := getJSON(t, ts.URL)

	if sj.Status.Ready {
		t.Error("expected Ready=false before calibration")
	}
	if sj.Status.Page != "CALIBRATION" {
		t.Errorf("Page before calibration: got %q, want CALIBRATION", sj.Status.Page)
	}
	if sj.Status.Posture != "UNKNOWN" {
		t.Errorf("Posture before calibration: got %q, want UNKNOWN", sj.Status.Posture)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(sittingFrame(), logic.EventCounts{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
}

func TestHTMLShowsPosture(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(sittingFrame(), logic.EventCounts{})

	body := getHTML(t, ts.URL+"/")
	for _, want := range []string{"SITTING", "REMAINING_TIME", "00:01:30", "00:43:30", "61.0 cm", `class="led lit"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestHTMLShowsAlert(t *testing.T) {
	ts, tr := newTestServer(t)
	f := sittingFrame()
	f.Page = logic.PageStand
	f.Alert = true
	f.SirenOn = true
	tr.Update(f, logic.EventCounts{Alerts: 1})

	body := getHTML(t, ts.URL+"/")
	if !strings.Contains(body, "STAND UP (siren)") {
		t.Error("expected alert with siren in page")
	}
}

func TestHTMLCalibrating(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(logic.Frame{Page: logic.PageCalibration, Calibrating: true, CalibProgress: 0.5}, logic.EventCounts{})

	body := getHTML(t, ts.URL+"/index.html")
	if !strings.Contains(body, "calibrating (50%)") {
		t.Error("expected calibration progress in page")
	}
	if !strings.Contains(body, "UNKNOWN") {
		t.Error("expected UNKNOWN posture while calibrating")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	sj1 := getJSON(t, ts.URL)
	if sj1.Status.Ready {
		t.Error("expected Ready=false initially")
	}

	standing := sittingFrame()
	standing.Posture = logic.PostureStanding
	tr.Update(standing, logic.EventCounts{StandUps: 1})
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL)
	if !sj2.Status.Ready {
		t.Error("expected Ready=true after update")
	}
	if sj2.Status.Posture != "STANDING" {
		t.Errorf("Posture: got %q, want STANDING", sj2.Status.Posture)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
