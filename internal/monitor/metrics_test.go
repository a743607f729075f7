package monitor

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	m := New("ph", 0x3f)
	m.PH.Set(6.5)
	m.MV.Set(29.6)
	m.ReadErrors.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`iseprobe_ph{addr="0x3f",kind="ph"} 6.5`,
		`iseprobe_millivolts{addr="0x3f",kind="ph"} 29.6`,
		`iseprobe_read_errors_total{addr="0x3f",kind="ph"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
}
