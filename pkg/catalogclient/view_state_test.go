package catalogclient_test

import (
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"katalog/pkg/catalogclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewStateQuery(t *testing.T) {
	s := catalogclient.NewViewState()
	q := s.Query()
	v := q.Values()
	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "6", v.Get("limit"))
	assert.Equal(t, "0", v.Get("minprice"))
	assert.Equal(t, "6000", v.Get("maxprice"))
	assert.Equal(t, "true", v.Get("available"))
	assert.False(t, v.Has("category"))

	s.Categories = []string{"Sport", "Food"}
	s.AvailableOnly = false
	v = s.Query().Values()
	assert.Equal(t, "Sport,Food", v.Get("category"))
	assert.False(t, v.Has("available"))
}

func TestViewStateIsSerializable(t *testing.T) {
	s := catalogclient.NewViewState()
	s.Categories = []string{"Beauty"}
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var back catalogclient.ViewState
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, s, back)
}

func TestVisiblePages(t *testing.T) {
	assert.Equal(t, []int{}, catalogclient.VisiblePages(1, 0))
	assert.Equal(t, []int{1, 2, 3}, catalogclient.VisiblePages(1, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, catalogclient.VisiblePages(1, 10))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, catalogclient.VisiblePages(6, 10))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, catalogclient.VisiblePages(10, 10))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, catalogclient.ClampPage(0, 4))
	assert.Equal(t, 4, catalogclient.ClampPage(9, 4))
	assert.Equal(t, 2, catalogclient.ClampPage(2, 4))
}

func TestDebouncerRunsLastTrigger(t *testing.T) {
	d := catalogclient.NewDebouncer(20 * time.Millisecond)
	var runs, last atomic.Int32
	for i := int32(1); i <= 5; i++ {
		d.Trigger(func() {
			runs.Add(1)
			last.Store(i)
		})
	}
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, runs.Load())
	assert.EqualValues(t, 5, last.Load())

	d.Trigger(func() { runs.Add(1) })
	assert.True(t, d.Cancel())
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, runs.Load())
	assert.False(t, d.Cancel())
}
