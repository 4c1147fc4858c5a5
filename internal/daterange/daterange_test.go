package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestForMonth(t *testing.T) {
	r := ForMonth(date("2024-02-17"))
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, date("2024-02-01"), *r.Start)
	assert.Equal(t, date("2024-02-29"), *r.End)
	assert.Len(t, r.Days(), 29)
}

func TestContains(t *testing.T) {
	r := Between(date("2024-01-10"), date("2024-01-20"))

	assert.True(t, r.Contains(date("2024-01-10")))
	assert.True(t, r.Contains(date("2024-01-20").Add(23*time.Hour)))
	assert.False(t, r.Contains(date("2024-01-09")))
	assert.False(t, r.Contains(date("2024-01-21")))

	assert.True(t, Range{}.Contains(date("1999-12-31")))
}

func TestOverlaps(t *testing.T) {
	jan := ForMonth(date("2024-01-01"))
	feb := ForMonth(date("2024-02-01"))
	openFromFeb := New(feb.Start, nil)
	untilJan15 := New(nil, ptr(date("2024-01-15")))

	assert.False(t, jan.Overlaps(feb))
	assert.True(t, jan.Overlaps(untilJan15))
	assert.False(t, openFromFeb.Overlaps(untilJan15))
	assert.True(t, openFromFeb.Overlaps(Range{}))
	assert.True(t, Between(date("2024-01-31"), date("2024-02-01")).Overlaps(feb))
}

func TestParse(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r, err := Parse("2024-01-01", "2024-01-31")
		require.NoError(t, err)
		assert.Equal(t, date("2024-01-01"), *r.Start)
		assert.Equal(t, date("2024-01-31"), *r.End)
	})

	t.Run("open bounds", func(t *testing.T) {
		r, err := Parse("", " ")
		require.NoError(t, err)
		assert.Nil(t, r.Start)
		assert.Nil(t, r.End)
		assert.True(t, r.IsOpen())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := Parse("2024-02-01", "2024-01-01")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Parse("01/02/2024", "")
		assert.Error(t, err)
	})
}

func TestParseMonth(t *testing.T) {
	r, err := ParseMonth("2023-11")
	require.NoError(t, err)
	assert.Equal(t, date("2023-11-30"), *r.End)

	_, err = ParseMonth("2023-13")
	assert.Error(t, err)
}

func ptr(t time.Time) *time.Time { return &t }
