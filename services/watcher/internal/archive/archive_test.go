package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/02loveslollipop/tpvbc/services/bcast/logging"
	"github.com/02loveslollipop/tpvbc/services/bcast/stream"
	"github.com/02loveslollipop/tpvbc/services/watcher/internal/models"
)

type memoryStore struct {
	indv map[string]map[models.ResultKey]models.ResultIndvRow
	team map[string]map[models.ResultKey]models.ResultTeamRow
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		indv: map[string]map[models.ResultKey]models.ResultIndvRow{},
		team: map[string]map[models.ResultKey]models.ResultTeamRow{},
	}
}

func (m *memoryStore) LastResultsIndv(_ context.Context, event string) (map[models.ResultKey]models.ResultIndvRow, error) {
	out := map[models.ResultKey]models.ResultIndvRow{}
	for k, v := range m.indv[event] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) LastResultsTeam(_ context.Context, event string) (map[models.ResultKey]models.ResultTeamRow, error) {
	out := map[models.ResultKey]models.ResultTeamRow{}
	for k, v := range m.team[event] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryStore) UpsertResultsIndv(_ context.Context, rows []models.ResultIndvRow) error {
	for _, r := range rows {
		if m.indv[r.Event] == nil {
			m.indv[r.Event] = map[models.ResultKey]models.ResultIndvRow{}
		}
		m.indv[r.Event][r.Key()] = r
	}
	return nil
}

func (m *memoryStore) UpsertResultsTeam(_ context.Context, rows []models.ResultTeamRow) error {
	for _, r := range rows {
		if m.team[r.Event] == nil {
			m.team[r.Event] = map[models.ResultKey]models.ResultTeamRow{}
		}
		m.team[r.Event][r.Key()] = r
	}
	return nil
}

func resultsServer(t *testing.T, indv *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bcast/event":
			w.Write([]byte(`[{"name":"Crit","type":"race"}]`))
		case "/bcast/resultsIndv":
			w.Write([]byte(*indv))
		case "/bcast/resultsTeam":
			w.Write([]byte(`[{"location":1,"position":1,"team": null,"teamCode":"BLU","pointsTotal":3,"time":60.5,"deltaTime":0}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunOnceWritesOnlyChanges(t *testing.T) {
	indv := `[{"location":1,"position":1,"name":"A","country":"NL","team":"Blue","teamCode":"BLU","points":3,"pointsTotal":3,"time":60,"deltaTime":0,"isEliminated":false},
{"location":1,"position":2,"name":"B","country": null,"team":"Red","teamCode":"RED","points":1,"pointsTotal":1,"time":61,"deltaTime":1,"isEliminated":false}]`
	srv := resultsServer(t, &indv)

	store := newMemoryStore()
	a := New(stream.NewHTTPBackend(srv.Client()), srv.URL, store, 0.01, 5*time.Second, logging.Discard())

	n, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, store.indv["Crit"], 2)
	assert.Equal(t, "", store.indv["Crit"][models.ResultKey{Location: 1, Position: 2}].Country)
	assert.Equal(t, "", store.team["Crit"][models.ResultKey{Location: 1, Position: 1}].Team)

	n, err = a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	indv = `[{"location":1,"position":1,"name":"A","country":"NL","team":"Blue","teamCode":"BLU","points":3,"pointsTotal":8,"time":60,"deltaTime":0,"isEliminated":false}]`
	n, err = a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 8, store.indv["Crit"][models.ResultKey{Location: 1, Position: 1}].PointsTotal)
}

func TestRunOnceDryRun(t *testing.T) {
	indv := `[]`
	srv := resultsServer(t, &indv)

	a := New(stream.NewHTTPBackend(srv.Client()), srv.URL, nil, 0.01, 5*time.Second, logging.Discard())
	n, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFetchFromFiles(t *testing.T) {
	dir := t.TempDir()
	bom := "\xEF\xBB\xBF"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event.json"), []byte(bom+`[{"name":"Hilly"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resultsIndv.json"), []byte(bom+`[{"location":2,"position":1,"name":"A"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resultsTeam.json"), []byte(bom+`[]`), 0o644))

	backend, base := stream.SelectBackend("file://"+dir, nil)
	a := New(backend, base, nil, 0.01, 5*time.Second, logging.Discard())

	snap, err := a.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hilly", snap.Event)
	require.Len(t, snap.Indv, 1)
	assert.Equal(t, 2, snap.Indv[0].Location)
	assert.Empty(t, snap.Team)
}

func TestFetchFailsOnUnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	a := New(stream.NewHTTPBackend(nil), addr, newMemoryStore(), 0.01, time.Second, logging.Discard())
	_, err := a.RunOnce(context.Background())
	assert.ErrorContains(t, err, "fetch event")
}
