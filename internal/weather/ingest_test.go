package weather

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	readings map[string]Reading
	calls    []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(_ context.Context, city string) (Reading, error) {
	p.calls = append(p.calls, city)
	r, ok := p.readings[city]
	if !ok {
		return Reading{}, fmt.Errorf("%w: city %q not found", ErrNetwork, city)
	}
	return r, nil
}

type fakeStore struct {
	appended []Reading
	failFor  map[string]bool
	trailing []int
}

func (s *fakeStore) EnsureSchema(context.Context) error { return nil }

func (s *fakeStore) Append(_ context.Context, r Reading) error {
	if s.failFor[r.CityName] {
		return fmt.Errorf("%w: insert: connection reset", ErrStorage)
	}
	s.appended = append(s.appended, r)
	return nil
}

func (s *fakeStore) QueryWindow(context.Context, time.Time, time.Time) ([]Record, error) {
	return nil, nil
}

func (s *fakeStore) QueryTrailing(_ context.Context, days int) ([]Record, error) {
	s.trailing = append(s.trailing, days)
	return []Record{RecordFromReading(1, Reading{CityName: "Cairo", Temperature: 30})}, nil
}

func newFakes() (*fakeProvider, *fakeStore) {
	return &fakeProvider{readings: map[string]Reading{
			"London": {CityName: "London", Temperature: 15, Humidity: 80, Description: "light rain"},
			"Tokyo":  {CityName: "Tokyo", Temperature: 22, Humidity: 60, Description: "clear sky"},
		}},
		&fakeStore{failFor: map[string]bool{}}
}

func TestFetchAndStore(t *testing.T) {
	p, s := newFakes()
	ing := NewIngestor(p, s, nil)

	r, err := ing.FetchAndStore(context.Background(), "London")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 15, r.Temperature)
	assert.Len(t, s.appended, 1)
}

func TestFetchAndStoreNetworkFailure(t *testing.T) {
	p, s := newFakes()
	ing := NewIngestor(p, s, nil)

	r, err := ing.FetchAndStore(context.Background(), "Atlantis")
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Empty(t, s.appended)
}

func TestFetchAndStoreStorageFailureReturnsReading(t *testing.T) {
	p, s := newFakes()
	s.failFor["Tokyo"] = true
	ing := NewIngestor(p, s, nil)

	r, err := ing.FetchAndStore(context.Background(), "Tokyo")
	assert.ErrorIs(t, err, ErrStorage)
	require.NotNil(t, r)
	assert.Equal(t, "clear sky", r.Description)
}

func TestIngestAllContinuesPastFailures(t *testing.T) {
	p, s := newFakes()
	s.failFor["Tokyo"] = true
	ing := NewIngestor(p, s, nil)

	res := ing.IngestAll(context.Background(), []string{"Atlantis", " ", "Tokyo", "London"})

	assert.Equal(t, []string{"Atlantis", "Tokyo", "London"}, p.calls)
	assert.Len(t, res.Readings, 2)
	assert.Equal(t, 1, res.Stored())
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "Atlantis", res.Failed[0].City)
	assert.ErrorIs(t, res.Failed[0], ErrNetwork)
	assert.Equal(t, "Tokyo", res.Failed[1].City)
	assert.ErrorIs(t, res.Failed[1], ErrStorage)
}

func TestIngestAllRepeatedCity(t *testing.T) {
	p, s := newFakes()
	s.failFor["Tokyo"] = true
	ing := NewIngestor(p, s, nil)

	res := ing.IngestAll(context.Background(), []string{"Tokyo", "London", "Tokyo"})

	assert.Len(t, res.Readings, 3)
	assert.Equal(t, 1, res.Stored())
	assert.Len(t, s.appended, 1)
	require.Len(t, res.Failed, 2)
	for _, f := range res.Failed {
		assert.Equal(t, "Tokyo", f.City)
		assert.ErrorIs(t, f, ErrStorage)
	}
}

func TestWindowLoader(t *testing.T) {
	_, s := newFakes()
	l := NewWindowLoader(s)

	records, err := l.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []int{7}, s.trailing)

	for _, days := range []int{0, -3} {
		_, err := l.Load(context.Background(), days)
		assert.Error(t, err)
	}
	assert.Equal(t, []int{7}, s.trailing)
}
