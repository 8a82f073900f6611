package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "iso date", in: "2023-10-01", want: NewDate(2023, time.October, 1)},
		{name: "padded", in: " 2023-10-01 ", want: NewDate(2023, time.October, 1)},
		{name: "rfc3339 drops time", in: "2023-10-01T22:30:00Z", want: NewDate(2023, time.October, 1)},
		{name: "garbage", in: "next friday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "impossible day", in: "2023-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s want %s", got, tt.want)
		})
	}
}

func TestMovieJSON(t *testing.T) {
	m := Movie{ID: 7, Title: "Heat", ReleaseDate: NewDate(1995, time.December, 15)}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Heat","release_date":"1995-12-15"}`, string(b))

	var back Movie
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Heat","release_date":"1995-12-15"}`), &back))
	assert.Equal(t, "1995-12-15", back.ReleaseDate.String())

	err = json.Unmarshal([]byte(`{"release_date":12}`), &back)
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2001, time.May, 4, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2001-05-04", d.String())

	require.NoError(t, d.Scan([]byte("2010-01-02")))
	assert.Equal(t, "2010-01-02", d.String())

	require.NoError(t, d.Scan("2011-03-04 00:00:00"))
	assert.Equal(t, "2011-03-04", d.String())

	assert.Error(t, d.Scan(nil))
	assert.Error(t, d.Scan(42))

	v, err := NewDate(1999, time.March, 31).Value()
	require.NoError(t, err)
	assert.Equal(t, "1999-03-31", v)
}
