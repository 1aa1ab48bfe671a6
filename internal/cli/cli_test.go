package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv(sessionEnv, "")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "reservactl dev")
}

func TestSlots(t *testing.T) {
	out, err := run(t, "slots", "--opens", "10:00", "--closes", "11:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00\n10:30\n11:00\n", out)

	_, err = run(t, "slots", "--opens", "ten", "--closes", "11:00")
	assert.Error(t, err)
}

func TestCompanies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `[{"id":1,"nombre":"Club Norte","hora_apertura":"09:00:00","hora_cierre":"21:00:00","telefono":"600"}]`)
	}))
	defer srv.Close()

	out, err := run(t, "companies", "--upstream", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Club Norte")
	assert.Contains(t, out, "09:00-21:00")
}

func TestReserve_NeedsSession(t *testing.T) {
	_, err := run(t, "reserve", "--product", "7", "--upstream", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session")
}

func bookingService(t *testing.T, created *map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"id":5,"name":"Ana","email":"ana@example.com"}`)
	})
	mux.HandleFunc("GET /api/products/7/reserve", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"product":{"id":7,"empresa_id":3,"nombre":"Paddle court","precio":"20.00","stock":4,"hora_ini":"10:00:00","hora_fin":"11:00:00"}}`)
	})
	mux.HandleFunc("GET /api/products/7/slots", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"success":true,"slots":["10:00","10:30","11:00"],"hasTimeRestriction":true}`)
	})
	mux.HandleFunc("POST /api/reservations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("X-XSRF-TOKEN"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(created))
		writeBody(w, 201, `{"success":true,"reservation_id":88}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestReserve_SendsValidatedBooking(t *testing.T) {
	var created map[string]any
	srv := bookingService(t, &created)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	out, err := run(t, "reserve", "--upstream", srv.URL, "--session", "laravel_session=s; XSRF-TOKEN=tok",
		"--product", "7", "--quantity", "2", "--date", tomorrow, "--time", "10:30")
	require.NoError(t, err)

	assert.Contains(t, out, "reservation 88 created")
	items := created["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "10:30", item["hora_reserva"])
	assert.Equal(t, float64(2), item["cantidad"])
	assert.Equal(t, tomorrow, item["fecha_reserva"])
}

func TestReserve_DefaultsToFirstAvailableTime(t *testing.T) {
	var created map[string]any
	srv := bookingService(t, &created)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	out, err := run(t, "reserve", "--upstream", srv.URL, "--session", "laravel_session=s; XSRF-TOKEN=tok",
		"--product", "7", "--date", tomorrow)
	require.NoError(t, err)

	assert.Contains(t, out, "on "+tomorrow+" 10:00")
	item := created["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "10:00", item["hora_reserva"])
}

func TestReserve_RejectsUnknownTime(t *testing.T) {
	var created map[string]any
	srv := bookingService(t, &created)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	out, err := run(t, "reserve", "--upstream", srv.URL, "--session", "laravel_session=s; XSRF-TOKEN=tok",
		"--product", "7", "--quantity", "9", "--date", tomorrow, "--time", "12:00")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "maximum available stock: 4")
	assert.Contains(t, err.Error(), "select one of the available times")
	assert.Contains(t, out, "available times on "+tomorrow)
	assert.Nil(t, created)
}

func TestReservationConfirm_ElapsedRefused(t *testing.T) {
	confirmed := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reservations/4", func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, 200, `{"reservation":{"id":4,"estado_id":1,"fecha_hora":"2020-01-01 10:00:00","lineas":[]}}`)
	})
	mux.HandleFunc("POST /api/reservations/4/confirm", func(w http.ResponseWriter, r *http.Request) {
		confirmed = true
		writeBody(w, 200, `{"success":true,"message":"ok"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := run(t, "reservation", "confirm", "4", "--upstream", srv.URL, "--session", "laravel_session=s")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "already passed"))
	assert.False(t, confirmed)
}
