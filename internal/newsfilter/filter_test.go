package newsfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hhmm string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", "2024-03-06 "+hhmm)
	return t
}

func TestFilter_Check(t *testing.T) {
	f, err := New([]Event{{Time: "14:00", Label: "FOMC"}}, 90*time.Minute, "")
	require.NoError(t, err)

	tests := []struct {
		now  string
		want bool
	}{
		{"14:00", true},
		{"12:31", true},
		{"15:29", true},
		{"12:30", false}, // exactly 90 minutes away
		{"15:30", false},
		{"08:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			got, ev := f.Check(at(tt.now))
			assert.Equal(t, tt.want, got)
			if got {
				assert.Equal(t, "FOMC", ev.Label)
			}
		})
	}
}

func TestFilter_WrapsMidnight(t *testing.T) {
	f, err := New([]Event{{Time: "23:30", Label: "late"}}, 60*time.Minute, "")
	require.NoError(t, err)
	assert.True(t, f.Suppressed(at("00:15")))
	assert.False(t, f.Suppressed(at("00:30")))
}

func TestFilter_UsesUTC(t *testing.T) {
	f, err := New([]Event{{Time: "12:30", Label: "NFP"}}, 30*time.Minute, "")
	require.NoError(t, err)
	ny := time.FixedZone("EST", -5*3600)
	assert.True(t, f.Suppressed(time.Date(2024, 3, 6, 7, 40, 0, 0, ny)))
}

func TestNew_Defaults(t *testing.T) {
	f, err := New(DefaultEvents(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultWindow, f.Window())
	assert.Len(t, f.Events(), 3)
	assert.False(t, f.Suppressed(at("03:00")))
	assert.True(t, f.Suppressed(at("11:00")))
}

func TestNew_Errors(t *testing.T) {
	_, err := New([]Event{{Time: "25:00", Label: "bad"}}, 0, "")
	assert.Error(t, err)
	_, err = New(nil, -time.Minute, "")
	assert.Error(t, err)
}

func TestFilter_NoEvents(t *testing.T) {
	f, err := New(nil, 0, "")
	require.NoError(t, err)
	assert.False(t, f.Suppressed(at("12:30")))
}

func TestFilter_BusinessDaysOnly(t *testing.T) {
	f, err := New([]Event{{Time: "14:00", Label: "FOMC"}}, 90*time.Minute, "xnys")
	require.NoError(t, err)
	assert.True(t, f.Suppressed(time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)), "wednesday")
	assert.False(t, f.Suppressed(time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)), "saturday")
}
