package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenDigger serves metric files keyed by "{name}/{metric}".
func newOpenDigger(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range files {
		mux.HandleFunc("/github/"+path+".json", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *contract.Config {
	return &contract.Config{
		Names:       []string{"a/x", "b/y"},
		Category:    schema.RepositoryCategory,
		Metric:      schema.OpenRankMetric,
		TimeUnit:    schema.YearUnit,
		TiePolicy:   schema.TieStable,
		BaseURL:     baseURL,
		Format:      schema.JSONFormat,
		ResultLimit: contract.DefaultResultLimit,
		Workers:     2,
		Timeout:     contract.DefaultTimeout,
		Precision:   contract.DefaultPrecision,
		Output:      schema.JSONOut,
		NodeSize:    schema.DefaultNodeSize,
		CacheTTL:    contract.DefaultCacheTTL,
		MemoSize:    16,
	}
}

func metricServer(t *testing.T) *httptest.Server {
	return newOpenDigger(t, map[string]string{
		"a/x/openrank": `{"2020": 5, "2021": 5.123, "2022": 9, "2021Q1": 1, "2021-01": 1, "2021-01-raw": 1}`,
		"b/y/openrank": `{"2021": 7, "2022": 3}`,
	})
}

func TestGetTimeseriesResults(t *testing.T) {
	srv := metricServer(t)
	cfg := testConfig(srv.URL)
	cfg.Span = schema.TimeSpan{From: "2021"}

	result, err := GetTimeseriesResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.YearUnit, result.Unit)
	assert.Equal(t, []string{"2021", "2022"}, result.Period)
	require.Len(t, result.Series, 2)
	assert.Equal(t, "a/x", result.Series[0].Name)
	require.NotNil(t, result.Series[0].Values[0])
	assert.InDelta(t, 5.12, *result.Series[0].Values[0], 1e-9)
	assert.InDelta(t, 3, *result.Series[1].Values[1], 1e-9)
}

func TestMetricResultsReuseCache(t *testing.T) {
	resetResponseCaches(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"2021": 3, "2022": 4}`))
	}))
	t.Cleanup(srv.Close)
	cfg := testConfig(srv.URL)
	ctx := WithSuppressHeader(context.Background())

	for range 3 {
		_, err := GetTimeseriesResults(ctx, cfg, nil)
		require.NoError(t, err)
	}
	_, err := GetRankResults(ctx, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load(), "one request per entity while entries are fresh")
}

func TestGetRankResults(t *testing.T) {
	srv := metricServer(t)
	cfg := testConfig(srv.URL)

	result, err := GetRankResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020", "2021", "2022"}, result.Period)
	require.Len(t, result.Series, 2)

	a, b := result.Series[0], result.Series[1]
	assert.Equal(t, 0, a.FirstActiveIndex)
	assert.Equal(t, 1, *a.Ranks[0])
	assert.Equal(t, 2, *a.Ranks[1])
	assert.Equal(t, 1, *a.Ranks[2])
	assert.Equal(t, 1, b.FirstActiveIndex)
	assert.Nil(t, b.Ranks[0])
	assert.Equal(t, 1, *b.Ranks[1])
	assert.Equal(t, 2, *b.Ranks[2])
}

func TestGetRaceResults(t *testing.T) {
	srv := metricServer(t)
	cfg := testConfig(srv.URL)
	cfg.ResultLimit = 1

	result, err := GetRaceResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	require.Len(t, result.Frames, 3)
	for _, frame := range result.Frames {
		assert.Len(t, frame.Entries, 1)
	}
	assert.Equal(t, "b/y", result.Frames[1].Entries[0].Name)
	assert.Equal(t, "a/x", result.Frames[2].Entries[0].Name)
}

func TestGetResultsFailure(t *testing.T) {
	srv := metricServer(t)
	cfg := testConfig(srv.URL)
	cfg.Names = []string{"a/x", "nope/nope"}

	_, err := GetTimeseriesResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope/nope")

	cfg.Names = nil
	_, err = GetRankResults(WithSuppressHeader(context.Background()), cfg, nil)
	assert.ErrorIs(t, err, ErrNoNames)
}

func TestGetGraphResults(t *testing.T) {
	srv := newOpenDigger(t, map[string]string{
		"graph": `{"nodes": [["a/x", 1], ["b/y", 3]], "edges": [["a/x", "b/y", 2], ["b/y", "a/x", 0]]}`,
	})
	cfg := testConfig(srv.URL)
	cfg.Source = srv.URL + "/github/graph.json"
	cfg.Highlight = []string{"a/x"}

	g, err := GetGraphResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.True(t, g.Nodes[0].Highlighted)
	assert.InDelta(t, 15, g.Nodes[0].SymbolSize, 1e-9)
	assert.InDelta(t, 100, g.Nodes[1].SymbolSize, 1e-9)
	assert.Len(t, g.Edges, 1)

	cfg.Source = ""
	_, err = GetGraphResults(WithSuppressHeader(context.Background()), cfg, nil)
	assert.ErrorIs(t, err, ErrNoSource)
}

func writeLandscape(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landscape.csv")
	body := "repo_id,repo_name,classification,stars,forks,language,created_at,description,openrank_25\n" +
		"1,a/x,Pre-train,\"1,200\",10,Python,2021/01/02,LLM trainer,50\n" +
		"2,b/y,Alpha,5,1,Go,,vector db,80\n" +
		",broken,Alpha,1,1,Go,,,1\n" +
		"3,c/z,,0,0,,,,10\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestGetLandscapeResults(t *testing.T) {
	cfg := testConfig("https://unused.test")
	cfg.Source = writeLandscape(t)

	result, err := GetLandscapeResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Projects, 3)
	assert.Equal(t, "b/y", result.Projects[0].RepoName)
	assert.Equal(t, 1, result.Projects[0].Rank)
	assert.Equal(t, []string{"Pre-train", "Alpha", "Uncategorized"}, result.Categories)

	cfg.Filter = schema.LandscapeFilter{Category: "Pre-train"}
	cfg.ResultLimit = 1
	result, err = GetLandscapeResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.InDelta(t, 1200, result.Projects[0].Stars, 1e-9)
}

func TestBuildLandscapeLimit(t *testing.T) {
	projects := landscapeFixture()
	result := BuildLandscape(projects, schema.LandscapeFilter{}, 2)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Projects, 2)
	assert.Len(t, result.Categories, 4)
	assert.NotEmpty(t, result.Groups)
}

func TestGetFetchResults(t *testing.T) {
	cfg := testConfig("https://unused.test")
	cfg.Source = writeLandscape(t)
	cfg.Format = schema.CSVFormat

	result, err := GetFetchResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	records, ok := result.([]schema.Record)
	require.True(t, ok)
	assert.Len(t, records, 4)

	cfg.Source = ""
	_, err = GetFetchResults(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestExecuteWritesJSON(t *testing.T) {
	srv := metricServer(t)
	ctx := WithSuppressHeader(context.Background())

	tests := []struct {
		name string
		exec ExecutorFunc
	}{
		{"timeseries", ExecuteTimeseries},
		{"race", ExecuteRace},
		{"rank", ExecuteRank},
		{"metrics", ExecuteMetrics},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(srv.URL)
			cfg.OutputFile = filepath.Join(t.TempDir(), tt.name+".json")
			require.NoError(t, tt.exec(ctx, cfg, nil))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.NotEmpty(t, decoded)
		})
	}
}

func TestExecuteLandscapeCSV(t *testing.T) {
	cfg := testConfig("https://unused.test")
	cfg.Source = writeLandscape(t)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "landscape.csv")

	require.NoError(t, ExecuteLandscape(WithSuppressHeader(context.Background()), cfg, nil))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a/x")
	assert.Contains(t, string(data), "rank")
}
